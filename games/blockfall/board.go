package blockfall

// Cell is one board square. The zero value is empty.
type Cell struct {
	Filled bool
	Kind   Kind
}

// Board is the settled stack. Row 0 is the bottom row.
type Board struct {
	cells [Rows][Cols]Cell
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Cols && y >= 0 && y < Rows
}

// At returns the cell at (x, y); out-of-range coordinates read as empty.
func (b *Board) At(x, y int) Cell {
	if !inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y][x]
}

// Occupied reports whether (x, y) holds a settled block.
func (b *Board) Occupied(x, y int) bool {
	return b.At(x, y).Filled
}

func (b *Board) fill(x, y int, k Kind) {
	if inBounds(x, y) {
		b.cells[y][x] = Cell{Filled: true, Kind: k}
	}
}

func (b *Board) clearCell(x, y int) {
	if inBounds(x, y) {
		b.cells[y][x] = Cell{}
	}
}

func (b *Board) clearRow(y int) {
	if y < 0 || y >= Rows {
		return
	}
	b.cells[y] = [Cols]Cell{}
}

func (b *Board) clearColumn(x int) {
	for y := 0; y < Rows; y++ {
		b.clearCell(x, y)
	}
}

// RowFull reports whether every cell of row y is occupied.
func (b *Board) RowFull(y int) bool {
	if y < 0 || y >= Rows {
		return false
	}
	for x := 0; x < Cols; x++ {
		if !b.cells[y][x].Filled {
			return false
		}
	}
	return true
}

// removeRow deletes row y, shifts every row above it down by one and
// leaves an empty row at the top.
func (b *Board) removeRow(y int) {
	if y < 0 || y >= Rows {
		return
	}
	copy(b.cells[y:Rows-1], b.cells[y+1:Rows])
	b.cells[Rows-1] = [Cols]Cell{}
}

// Reset empties the board.
func (b *Board) Reset() {
	b.cells = [Rows][Cols]Cell{}
}

// Filled counts occupied cells.
func (b *Board) Filled() int {
	n := 0
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if b.cells[y][x].Filled {
				n++
			}
		}
	}
	return n
}

// cellToGrid maps matrix cell (r, c) of a piece whose origin is (x, y) to a
// board coordinate. Matrices are stored top row first while board rows grow
// upward, so the row index is flipped against the matrix height.
func cellToGrid(m Matrix, x, y, r, c int) (gx, gy int) {
	return x + c, y + (m.Height() - 1 - r)
}

// forEachCell calls fn with the board coordinate of every filled cell of m
// placed at origin (x, y), stopping early when fn returns false.
func forEachCell(m Matrix, x, y int, fn func(gx, gy int) bool) {
	for r := range m {
		for c, v := range m[r] {
			if v == 0 {
				continue
			}
			gx, gy := cellToGrid(m, x, y, r, c)
			if !fn(gx, gy) {
				return
			}
		}
	}
}

// Collides reports whether m placed at origin (x, y) overlaps a wall, the
// floor or a settled block. Cells above the top row are allowed so spawn and
// rotation checks near the ceiling are not blocked.
func (b *Board) Collides(m Matrix, x, y int) bool {
	hit := false
	forEachCell(m, x, y, func(gx, gy int) bool {
		switch {
		case gx < 0 || gx >= Cols:
			hit = true
		case gy < 0:
			hit = true
		case gy >= Rows:
			return true
		case b.cells[gy][gx].Filled:
			hit = true
		}
		return !hit
	})
	return hit
}
