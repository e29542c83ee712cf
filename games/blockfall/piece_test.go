package blockfall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryMove(t *testing.T) {
	s := newPlaying(t)
	place(s, KindO, 0, 0)

	assert.False(t, s.TryMove(-1, 0), "left wall")
	assert.False(t, s.TryMove(0, -1), "floor")
	assert.True(t, s.TryMove(1, 0))
	assert.True(t, s.TryMove(0, 1))

	p := s.Active()
	assert.Equal(t, 1, p.X)
	assert.Equal(t, 1, p.Y)
}

func TestRotateUsesWallKicks(t *testing.T) {
	s := newPlaying(t)
	p := place(s, KindI, 8, 5)
	p.Matrix = RotateCW(p.Matrix)

	require.True(t, s.TryRotate(Clockwise))
	got := s.Active()
	assert.Equal(t, Matrix{{1, 1, 1, 1}}, got.Matrix)
	assert.Equal(t, 6, got.X, "kicked two columns left")
	assert.Equal(t, 5, got.Y)
}

func TestRotateFailsWhenEveryKickCollides(t *testing.T) {
	s := newPlaying(t)
	p := place(s, KindI, 0, 0)
	p.Matrix = RotateCW(p.Matrix)
	s.board.fill(1, 0, KindZ)
	s.board.fill(2, 0, KindZ)
	s.board.fill(1, 1, KindZ)

	before := s.Active()
	assert.False(t, s.TryRotate(Clockwise))
	assert.Equal(t, before, s.Active())
}

func TestRotateUpKick(t *testing.T) {
	s := newPlaying(t)
	place(s, KindZ, 4, 0)
	// Z at (4, 0) covers (5, 0) (6, 0) (4, 1) (5, 1). Block every
	// horizontal kick so only the upward one fits.
	for _, c := range []Point{{4, 0}, {3, 0}, {6, 2}, {2, 0}, {7, 1}} {
		s.board.fill(c.X, c.Y, KindO)
	}

	require.True(t, s.TryRotate(Clockwise))
	got := s.Active()
	assert.Equal(t, RotateCW(KindZ.Shape()), got.Matrix)
	assert.Equal(t, 4, got.X)
	assert.Equal(t, 1, got.Y)
}

func TestHoldOncePerPiece(t *testing.T) {
	s := newPlaying(t)
	place(s, KindT, 3, 18)
	s.next = newPiece(KindS)

	require.True(t, s.Apply(Press(CmdHold)))
	assert.Equal(t, KindT, s.Held().Kind)
	assert.Equal(t, KindS, s.Active().Kind)
	assert.False(t, s.CanHold())
	assert.False(t, s.Hold(), "second hold for the same piece")

	require.True(t, s.HardDrop())
	assert.True(t, s.CanHold())
	third := s.Active().Kind

	require.True(t, s.Hold())
	active := s.Active()
	assert.Equal(t, KindT, active.Kind)
	assert.Equal(t, 3, active.X)
	assert.Equal(t, 18, active.Y)
	assert.Equal(t, KindT.Shape(), active.Matrix, "held piece comes back unrotated")
	assert.Equal(t, third, s.Held().Kind)
}

func TestHoldSwapIntoBlockedSpawnEndsGame(t *testing.T) {
	s := newPlaying(t)
	place(s, KindI, 0, 0)
	s.hold = newPiece(KindO)
	s.board.fill(4, Rows-1, KindZ)

	assert.True(t, s.Hold())
	assert.Equal(t, StateGameOver, s.State())
}

func TestGhostY(t *testing.T) {
	s := newPlaying(t)
	place(s, KindI, 3, 19)

	y, ok := s.GhostY()
	require.True(t, ok)
	assert.Equal(t, 0, y)

	s.board.fill(4, 4, KindZ)
	y, _ = s.GhostY()
	assert.Equal(t, 5, y)
}

func TestHardDropScoresRows(t *testing.T) {
	s := newPlaying(t)
	place(s, KindI, 3, 19)

	require.True(t, s.Apply(Press(CmdHardDrop)))
	assert.Equal(t, 38, s.Score())
	assert.Equal(t, 1, s.PiecesPlaced())
	for x := 3; x <= 6; x++ {
		assert.True(t, s.board.Occupied(x, 0))
	}
}

func TestHardDropUsesMultiplier(t *testing.T) {
	s := newPlaying(t, WithArcade(true))
	s.arcade.comboCount = 2
	s.arcade.comboMultiplier = 1.25
	s.arcade.cleared = true
	s.arcade.lastClearAt = s.now
	place(s, KindI, 3, 19)

	require.True(t, s.HardDrop())
	assert.Equal(t, 48, s.Score())
}

func TestLockDiscardsCellsAboveTheTop(t *testing.T) {
	s := newPlaying(t)
	p := place(s, KindI, 0, Rows-2)
	p.Matrix = RotateCW(p.Matrix)
	s.board.fill(0, Rows-3, KindZ)

	s.lock()
	assert.Equal(t, 3, s.board.Filled())
	assert.True(t, s.board.Occupied(0, Rows-1))
	assert.Equal(t, StatePlaying, s.State())
}
