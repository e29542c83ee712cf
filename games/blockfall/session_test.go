package blockfall

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionWaitsOnStartScreen(t *testing.T) {
	s := NewSession(WithSeed(1))
	assert.Equal(t, StateStart, s.State())
	assert.NotNil(t, s.Active())
	assert.NotNil(t, s.Next())
	assert.Nil(t, s.Held())
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, 800*time.Millisecond, s.BaseDropInterval())

	assert.False(t, s.TryMove(-1, 0), "no movement before start")
	assert.True(t, s.Apply(Press(CmdStart)))
	assert.Equal(t, StatePlaying, s.State())
	assert.False(t, s.Start(), "already started")
}

func TestSpawnPosition(t *testing.T) {
	tests := []struct {
		kind Kind
		x, y int
	}{
		{KindI, 3, 19},
		{KindO, 4, 18},
		{KindT, 3, 18},
		{KindL, 3, 18},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			s := newPlaying(t)
			s.next = newPiece(tt.kind)
			s.spawn()

			p := s.Active()
			require.NotNil(t, p)
			assert.Equal(t, tt.kind, p.Kind)
			assert.Equal(t, tt.x, p.X)
			assert.Equal(t, tt.y, p.Y)
		})
	}
}

func TestSpawnNeverCollidesOnEmptyBoard(t *testing.T) {
	var b Board
	for _, k := range AllKinds {
		p := newPiece(k)
		p.moveToSpawn()
		assert.False(t, b.Collides(p.Matrix, p.X, p.Y), "kind %s at (%d, %d)", k, p.X, p.Y)
		assert.Equal(t, Rows-p.Matrix.Height(), p.Y, "kind %s sits against the top", k)
		assert.Equal(t, (Cols-p.Matrix.Width())/2, p.X, "kind %s is centred", k)
	}
}

func TestPauseBlocksPlay(t *testing.T) {
	s := newPlaying(t)
	before := s.Active()

	assert.True(t, s.Apply(Press(CmdTogglePause)))
	assert.Equal(t, StatePaused, s.State())

	assert.False(t, s.TryMove(1, 0))
	assert.False(t, s.TryRotate(Clockwise))
	assert.False(t, s.HardDrop())
	assert.False(t, s.Hold())
	for i := 0; i < 100; i++ {
		s.Step(50 * time.Millisecond)
	}
	assert.Equal(t, before, s.Active())

	assert.True(t, s.TogglePause())
	assert.Equal(t, StatePlaying, s.State())
	assert.True(t, s.TryMove(1, 0))
}

func TestGameOverWhenSpawnIsBlocked(t *testing.T) {
	s := newPlaying(t)
	place(s, KindI, 0, 0)
	for x := 3; x <= 6; x++ {
		s.board.fill(x, Rows-1, KindZ)
		s.board.fill(x, Rows-2, KindZ)
	}

	assert.True(t, s.HardDrop())
	assert.Equal(t, StateGameOver, s.State())

	over := eventsOf(s.DrainEvents(), EventGameOver)
	require.Len(t, over, 1)
	assert.Equal(t, s.Score(), over[0].Score)

	assert.False(t, s.TryMove(1, 0))
	assert.False(t, s.TryMove(0, -1))
	assert.False(t, s.TryRotate(Clockwise))
	assert.False(t, s.TryRotate(CounterClockwise))
	assert.False(t, s.Hold())
	assert.False(t, s.HardDrop())
	assert.False(t, s.Apply(Press(CmdSoftDrop)))
	assert.False(t, s.Apply(Press(CmdMoveLeft)))
	assert.False(t, s.TogglePause(), "cannot pause a finished game")

	score := s.Score()
	for i := 0; i < 50; i++ {
		s.Step(50 * time.Millisecond)
	}
	assert.Equal(t, StateGameOver, s.State())
	assert.Equal(t, score, s.Score())
	assert.Empty(t, eventsOf(s.DrainEvents(), EventGameOver), "game over is raised once")

	assert.True(t, s.Apply(Press(CmdRestart)))
	assert.True(t, s.TryMove(1, 0))
}

func TestRestartResetsEverything(t *testing.T) {
	s := newPlaying(t, WithArcade(true))
	s.score = 1234
	s.lines = 25
	s.level = 3
	s.board.fill(0, 0, KindT)
	s.powers.Put(5, 15, Bomb)
	s.arcade.comboCount = 4
	s.arcade.comboMultiplier = 1.75
	s.gameOver()

	assert.True(t, s.Apply(Press(CmdRestart)))
	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Lines())
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, 0, s.board.Filled())
	assert.Empty(t, s.PowerUps())
	assert.Equal(t, 0, s.ComboCount())
	assert.Equal(t, 1.0, s.ScoreMultiplier())
	assert.True(t, s.Arcade(), "arcade setting survives restart")
	assert.Nil(t, s.Held())
	assert.True(t, s.CanHold())
}

func TestTogglingArcadeOffClearsPowerUps(t *testing.T) {
	s := newPlaying(t, WithArcade(true))
	s.powers.Put(2, 14, Slow)
	s.arcade.piecesSinceSpawn = 9

	assert.True(t, s.Apply(Press(CmdToggleArcade)))
	assert.False(t, s.Arcade())
	assert.Empty(t, s.PowerUps())
	assert.Equal(t, 0, s.arcade.piecesSinceSpawn)

	s.SetArcade(true)
	assert.True(t, s.Arcade())
}

func TestEffectiveDropInterval(t *testing.T) {
	s := newPlaying(t, WithArcade(true))
	assert.Equal(t, 800*time.Millisecond, s.EffectiveDropInterval())

	s.arcade.slowUntil = s.now + time.Second
	assert.InDelta(t, float64(1320*time.Millisecond), float64(s.EffectiveDropInterval()), float64(time.Microsecond))

	s.arcade.feverUntil = s.now + time.Second
	assert.InDelta(t, float64(1214400*time.Microsecond), float64(s.EffectiveDropInterval()), float64(time.Microsecond))

	s.SetArcade(false)
	assert.Equal(t, 800*time.Millisecond, s.EffectiveDropInterval())

	tuning := DefaultTuning()
	tuning.BaseDropInterval = 20 * time.Millisecond
	tuning.MinDropInterval = 10 * time.Millisecond
	fast := newPlaying(t, WithTuning(tuning))
	assert.Equal(t, 40*time.Millisecond, fast.EffectiveDropInterval())
}

func TestDropIntervalForLevel(t *testing.T) {
	tuning := DefaultTuning()
	assert.Equal(t, 800*time.Millisecond, tuning.dropIntervalFor(1))
	assert.Equal(t, 745*time.Millisecond, tuning.dropIntervalFor(2))
	assert.Equal(t, 305*time.Millisecond, tuning.dropIntervalFor(10))
	assert.Equal(t, 90*time.Millisecond, tuning.dropIntervalFor(30))
}
