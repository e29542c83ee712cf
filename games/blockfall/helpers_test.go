package blockfall

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newPlaying returns a seeded session that has already left the start
// screen, with the spawn events drained.
func newPlaying(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := NewSession(append([]Option{WithSeed(7)}, opts...)...)
	require.True(t, s.Start())
	s.DrainEvents()
	return s
}

// place replaces the active piece with kind k at origin (x, y).
func place(s *Session, k Kind, x, y int) *Piece {
	p := newPiece(k)
	p.X, p.Y = x, y
	s.active = p
	return p
}

// fillRow fills row y except the listed columns.
func fillRow(b *Board, y int, except ...int) {
	skip := map[int]bool{}
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < Cols; x++ {
		if !skip[x] {
			b.fill(x, y, KindO)
		}
	}
}

func eventsOf(events []Event, typ EventType) []Event {
	var out []Event
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
