package blockfall

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArcade() *arcade {
	a := &arcade{Enabled: true}
	a.reset()
	return a
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestComboWindow(t *testing.T) {
	tuning := DefaultTuning()
	a := newArcade()

	a.onLinesCleared(&tuning, ms(0), 1)
	assert.Equal(t, 1, a.comboCount)
	assert.Equal(t, 1.0, a.comboMultiplier)

	a.onLinesCleared(&tuning, ms(1400), 1)
	assert.Equal(t, 2, a.comboCount, "inclusive window")
	assert.Equal(t, 1.25, a.comboMultiplier)

	a.onLinesCleared(&tuning, ms(2900), 1)
	assert.Equal(t, 1, a.comboCount, "window lapsed")
	assert.Equal(t, 1.0, a.comboMultiplier)
}

func TestComboMultiplierCaps(t *testing.T) {
	tuning := DefaultTuning()
	tuning.FeverLines = 1000
	a := newArcade()

	for i := 0; i < 40; i++ {
		a.onLinesCleared(&tuning, ms(i*100), 1)
	}
	assert.Equal(t, 40, a.comboCount)
	assert.Equal(t, 7.0, a.comboMultiplier)
}

func TestComboDecay(t *testing.T) {
	tuning := DefaultTuning()
	a := newArcade()
	a.onLinesCleared(&tuning, ms(0), 1)
	a.onLinesCleared(&tuning, ms(500), 1)

	a.decay(&tuning, ms(1900))
	assert.Equal(t, 2, a.comboCount)
	assert.InDelta(t, 0.0, a.comboRemaining(&tuning, ms(1900)), 1e-9)

	a.decay(&tuning, ms(1901))
	assert.Equal(t, 0, a.comboCount)
	assert.Equal(t, 1.0, a.comboMultiplier)
	assert.Equal(t, 0.0, a.comboRemaining(&tuning, ms(1901)))
}

func TestFeverTriggersOnRollingWindow(t *testing.T) {
	tuning := DefaultTuning()
	a := newArcade()

	assert.False(t, a.onLinesCleared(&tuning, ms(0), 2))
	assert.False(t, a.onLinesCleared(&tuning, ms(1000), 2))
	assert.True(t, a.onLinesCleared(&tuning, ms(2000), 2))
	assert.Equal(t, ms(10000), a.feverUntil)
	assert.Empty(t, a.recent)

	assert.True(t, a.feverActive(ms(9999)))
	assert.False(t, a.feverActive(ms(10000)))

	// Another six lines during fever extend it without a new start.
	assert.False(t, a.onLinesCleared(&tuning, ms(5000), 4))
	assert.False(t, a.onLinesCleared(&tuning, ms(6000), 2))
	assert.Equal(t, ms(14000), a.feverUntil)
}

func TestFeverWindowDropsOldClears(t *testing.T) {
	tuning := DefaultTuning()
	a := newArcade()

	a.onLinesCleared(&tuning, ms(0), 2)
	a.onLinesCleared(&tuning, ms(3000), 2)
	assert.False(t, a.onLinesCleared(&tuning, ms(4600), 2))
	assert.Len(t, a.recent, 2)
	assert.False(t, a.feverActive(ms(4600)))
}

func TestScoreMultiplierComposes(t *testing.T) {
	tuning := DefaultTuning()
	a := newArcade()
	a.comboMultiplier = 1.25
	a.feverUntil = ms(100)

	assert.InDelta(t, 2.1875, a.scoreMultiplier(&tuning, ms(50)), 1e-9)
	assert.Equal(t, 1.25, a.scoreMultiplier(&tuning, ms(100)))

	a.Enabled = false
	assert.Equal(t, 1.0, a.scoreMultiplier(&tuning, ms(50)))
}

func TestClearAfterFeverEndsScoresWithoutBonus(t *testing.T) {
	s := newPlaying(t, WithArcade(true))
	for i := 0; i < 3; i++ {
		fillRow(&s.board, 0)
		fillRow(&s.board, 1)
		s.clearLines()
		s.now += 500 * time.Millisecond
	}
	require.True(t, s.FeverActive())

	// Let fever and the combo window run out.
	s.now += s.tuning.FeverDuration
	s.Step(0)
	require.False(t, s.FeverActive())
	require.Equal(t, 1.0, s.ScoreMultiplier())

	before := s.Score()
	fillRow(&s.board, 0)
	assert.Equal(t, 1, s.clearLines())
	assert.Equal(t, 40, s.Score()-before, "level 1 single at x1")
}

func TestFeverStartedEvent(t *testing.T) {
	s := newPlaying(t, WithArcade(true))
	for i := 0; i < 3; i++ {
		fillRow(&s.board, 0)
		fillRow(&s.board, 1)
		s.clearLines()
		s.now += 500 * time.Millisecond
	}
	assert.True(t, s.FeverActive())
	assert.Len(t, eventsOf(s.DrainEvents(), EventFeverStarted), 1)
}
