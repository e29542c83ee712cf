package blockfall

// Piece is a tetromino with its current orientation and origin. The origin
// is the board coordinate of the matrix's bottom-left cell.
type Piece struct {
	Kind   Kind
	Matrix Matrix
	X, Y   int
}

func newPiece(k Kind) *Piece {
	return &Piece{Kind: k, Matrix: k.Shape()}
}

func (p *Piece) Color() uint32 {
	return p.Kind.Color()
}

// Clone returns a copy that shares no rows with p.
func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	return &Piece{Kind: p.Kind, Matrix: p.Matrix.Clone(), X: p.X, Y: p.Y}
}

// moveToSpawn centres the piece horizontally with its top on the top row.
func (p *Piece) moveToSpawn() {
	p.X = (Cols - p.Matrix.Width()) / 2
	p.Y = Rows - p.Matrix.Height()
}

// rotationKicks are tried in order until the rotated matrix fits.
var rotationKicks = [...]Point{
	{0, 0},
	{-1, 0},
	{1, 0},
	{-2, 0},
	{2, 0},
	{0, 1},
}

// spawn promotes the next piece, draws a new next piece and re-arms hold.
func (s *Session) spawn() {
	if s.next == nil {
		s.next = newPiece(s.bag.Draw())
	}
	s.active = s.next
	s.next = newPiece(s.bag.Draw())
	s.active.moveToSpawn()
	s.holdUsed = false

	if s.board.Collides(s.active.Matrix, s.active.X, s.active.Y) {
		s.gameOver()
	}
}

// Active returns a copy of the falling piece, or nil.
func (s *Session) Active() *Piece { return s.active.Clone() }

// Next returns a copy of the preview piece.
func (s *Session) Next() *Piece { return s.next.Clone() }

// Held returns a copy of the held piece, or nil.
func (s *Session) Held() *Piece { return s.hold.Clone() }

// CanHold reports whether a hold is still allowed for the current piece.
func (s *Session) CanHold() bool { return !s.holdUsed }

// TryMove shifts the active piece by (dx, dy) if the target is free.
// Positive dy is up.
func (s *Session) TryMove(dx, dy int) bool {
	if !s.playing() {
		return false
	}
	nx, ny := s.active.X+dx, s.active.Y+dy
	if s.board.Collides(s.active.Matrix, nx, ny) {
		return false
	}
	s.active.X, s.active.Y = nx, ny
	return true
}

// TryRotate turns the active piece, trying each kick offset in order.
func (s *Session) TryRotate(dir Direction) bool {
	if !s.playing() {
		return false
	}
	rotated := s.active.Matrix.Rotate(dir)
	for _, k := range rotationKicks {
		nx, ny := s.active.X+k.X, s.active.Y+k.Y
		if !s.board.Collides(rotated, nx, ny) {
			s.active.Matrix = rotated
			s.active.X, s.active.Y = nx, ny
			return true
		}
	}
	return false
}

// Hold parks the active kind. With an empty hold slot the next piece comes
// in; otherwise the held kind swaps in at the spawn position. Only one hold
// is allowed per spawned piece.
func (s *Session) Hold() bool {
	if !s.playing() || s.holdUsed {
		return false
	}

	current := newPiece(s.active.Kind)
	if s.hold == nil {
		s.hold = current
		s.spawn()
	} else {
		swapped := newPiece(s.hold.Kind)
		s.hold = current
		s.active = swapped
		s.active.moveToSpawn()
		if s.board.Collides(s.active.Matrix, s.active.X, s.active.Y) {
			s.gameOver()
		}
	}
	s.holdUsed = true
	return true
}

// GhostY returns the row the active piece would come to rest on.
func (s *Session) GhostY() (int, bool) {
	if s.active == nil {
		return 0, false
	}
	y := s.active.Y
	for !s.board.Collides(s.active.Matrix, s.active.X, y-1) {
		y--
	}
	return y, true
}

// HardDrop drops the active piece to its resting row and locks it.
func (s *Session) HardDrop() bool {
	if !s.playing() {
		return false
	}
	dropped := 0
	for s.TryMove(0, -1) {
		dropped++
	}
	s.addPoints(float64(dropped * s.tuning.HardDropRowPoints))
	s.lock()
	return true
}

// activeCovers reports whether the active piece occupies board cell (x, y).
func (s *Session) activeCovers(x, y int) bool {
	if s.active == nil {
		return false
	}
	covered := false
	forEachCell(s.active.Matrix, s.active.X, s.active.Y, func(gx, gy int) bool {
		covered = gx == x && gy == y
		return !covered
	})
	return covered
}

// merge writes the active piece into the board. Power-ups under merged
// cells are collected before the cell is overwritten; cells above the top
// row are dropped.
func (s *Session) merge() {
	p := s.active
	forEachCell(p.Matrix, p.X, p.Y, func(gx, gy int) bool {
		if gy < 0 || gy >= Rows {
			return true
		}
		if kind, ok := s.powers.Take(gx, gy); ok {
			s.triggerPowerUp(kind, gx, gy, CauseCollect)
		}
		s.board.fill(gx, gy, p.Kind)
		return true
	})
}

// lock settles the active piece, clears lines, spawns the next piece and
// then gives the arcade spawn policy its turn.
func (s *Session) lock() {
	if s.active == nil {
		return
	}
	s.merge()
	s.active = nil
	s.piecesPlaced++
	s.arcade.piecesSinceSpawn++

	cleared := s.clearLines()
	if s.arcade.Enabled && cleared > 0 {
		s.arcade.linesSinceSpawn += cleared
	}

	s.spawn()
	if s.state == StateGameOver {
		return
	}
	s.maybeSpawnPowerUp()
}
