package blockfall

import (
	"sort"

	"github.com/kamstrup/intmap"
)

// Point is a board coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PowerUpCell is one entry of the power-up overlay.
type PowerUpCell struct {
	Point
	Kind PowerUp `json:"kind"`
}

// PowerMap is the sparse overlay of power-ups lying on empty board cells.
type PowerMap struct {
	m *intmap.Map[int32, PowerUp]
}

func NewPowerMap() *PowerMap {
	return &PowerMap{m: intmap.New[int32, PowerUp](16)}
}

func powerKey(x, y int) int32 {
	return int32(y*Cols + x)
}

func powerPoint(k int32) Point {
	return Point{X: int(k) % Cols, Y: int(k) / Cols}
}

// Get returns the power-up at (x, y), if any.
func (p *PowerMap) Get(x, y int) (PowerUp, bool) {
	if !inBounds(x, y) {
		return 0, false
	}
	return p.m.Get(powerKey(x, y))
}

func (p *PowerMap) Has(x, y int) bool {
	return inBounds(x, y) && p.m.Has(powerKey(x, y))
}

// Put places kind at (x, y). Out-of-range coordinates are ignored.
func (p *PowerMap) Put(x, y int, kind PowerUp) {
	if inBounds(x, y) {
		p.m.Put(powerKey(x, y), kind)
	}
}

// Take removes and returns the power-up at (x, y).
func (p *PowerMap) Take(x, y int) (PowerUp, bool) {
	kind, ok := p.Get(x, y)
	if ok {
		p.m.Del(powerKey(x, y))
	}
	return kind, ok
}

func (p *PowerMap) Len() int {
	return p.m.Len()
}

func (p *PowerMap) Clear() {
	p.m.Clear()
}

// CollapseRow keeps the overlay aligned with Board.removeRow: entries on
// row y are dropped and entries above it move down one row.
func (p *PowerMap) CollapseRow(y int) {
	if p.m.Len() == 0 {
		return
	}
	entries := p.Cells()
	p.m.Clear()
	for _, e := range entries {
		switch {
		case e.Y > y:
			p.m.Put(powerKey(e.X, e.Y-1), e.Kind)
		case e.Y < y:
			p.m.Put(powerKey(e.X, e.Y), e.Kind)
		}
	}
}

// Cells returns every entry ordered bottom-to-top, left-to-right.
func (p *PowerMap) Cells() []PowerUpCell {
	out := make([]PowerUpCell, 0, p.m.Len())
	for k, v := range p.m.All() {
		out = append(out, PowerUpCell{Point: powerPoint(k), Kind: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
