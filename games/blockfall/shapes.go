package blockfall

import "fmt"

const (
	Cols = 10
	Rows = 20
)

// Kind identifies one of the seven piece shapes.
type Kind uint8

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// AllKinds lists every piece kind in bag order.
var AllKinds = [...]Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

var kindNames = [...]string{"I", "O", "T", "S", "Z", "J", "L"}

var kindColors = [...]uint32{
	0x4dd7ff, // I
	0xffd54d, // O
	0xc47bff, // T
	0x55f27a, // S
	0xff5a7a, // Z
	0x4d6bff, // J
	0xffa04d, // L
}

// Matrix is a row-major fill pattern; row 0 is the top of the shape.
type Matrix [][]uint8

// Piece shapes as they appear at spawn.
var shapes = [...]Matrix{
	KindI: {
		{1, 1, 1, 1},
	},
	KindO: {
		{1, 1},
		{1, 1},
	},
	KindT: {
		{0, 1, 0},
		{1, 1, 1},
	},
	KindS: {
		{0, 1, 1},
		{1, 1, 0},
	},
	KindZ: {
		{1, 1, 0},
		{0, 1, 1},
	},
	KindJ: {
		{1, 0, 0},
		{1, 1, 1},
	},
	KindL: {
		{0, 0, 1},
		{1, 1, 1},
	},
}

func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind by its letter.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Color returns the 24-bit RGB color used for the kind.
func (k Kind) Color() uint32 {
	if !k.Valid() {
		return 0xffffff
	}
	return kindColors[k]
}

// Shape returns a fresh copy of the kind's spawn matrix.
func (k Kind) Shape() Matrix {
	return shapes[k].Clone()
}

// Clone returns a deep copy so callers never share rows.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i := range m {
		out[i] = make([]uint8, len(m[i]))
		copy(out[i], m[i])
	}
	return out
}

func (m Matrix) Height() int {
	return len(m)
}

func (m Matrix) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Equal reports whether both matrices have the same dimensions and fill.
func (m Matrix) Equal(o Matrix) bool {
	if m.Height() != o.Height() || m.Width() != o.Width() {
		return false
	}
	for r := range m {
		for c := range m[r] {
			if m[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// Direction is a rotation sense.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// RotateCW turns the matrix a quarter clockwise: out[x][h-1-y] = in[y][x].
func RotateCW(m Matrix) Matrix {
	h, w := m.Height(), m.Width()
	out := newMatrix(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[x][h-1-y] = m[y][x]
		}
	}
	return out
}

// RotateCCW turns the matrix a quarter counter-clockwise: out[w-1-x][y] = in[y][x].
func RotateCCW(m Matrix) Matrix {
	h, w := m.Height(), m.Width()
	out := newMatrix(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[w-1-x][y] = m[y][x]
		}
	}
	return out
}

// Rotate dispatches to RotateCW or RotateCCW.
func (m Matrix) Rotate(dir Direction) Matrix {
	if dir == CounterClockwise {
		return RotateCCW(m)
	}
	return RotateCW(m)
}

func newMatrix(rows, cols int) Matrix {
	out := make(Matrix, rows)
	for i := range out {
		out[i] = make([]uint8, cols)
	}
	return out
}
