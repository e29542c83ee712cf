package blockfall

// PieceView is a renderable piece: its kind and the cells it covers.
// For the next and hold previews the cells are relative to (0, 0).
type PieceView struct {
	Kind  Kind    `json:"kind"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Color uint32  `json:"color"`
	Cells []Point `json:"cells"`
}

func viewOf(p *Piece, x, y int) *PieceView {
	if p == nil {
		return nil
	}
	v := &PieceView{Kind: p.Kind, X: x, Y: y, Color: p.Color()}
	forEachCell(p.Matrix, x, y, func(gx, gy int) bool {
		v.Cells = append(v.Cells, Point{X: gx, Y: gy})
		return true
	})
	return v
}

// Snapshot is a read-only copy of everything a frontend draws.
type Snapshot struct {
	State State `json:"state"`

	// Board rows bottom first. 0 is empty, otherwise kind+1.
	Board    [Rows][Cols]int8 `json:"board"`
	PowerUps []PowerUpCell    `json:"powerUps"`

	Active  *PieceView `json:"active,omitempty"`
	Ghost   *PieceView `json:"ghost,omitempty"`
	Next    *PieceView `json:"next,omitempty"`
	Hold    *PieceView `json:"hold,omitempty"`
	CanHold bool       `json:"canHold"`

	Score int `json:"score"`
	Lines int `json:"lines"`
	Level int `json:"level"`

	Arcade          bool    `json:"arcade"`
	ComboCount      int     `json:"comboCount"`
	ComboMultiplier float64 `json:"comboMultiplier"`
	ComboRemaining  float64 `json:"comboRemaining"`
	ScoreMultiplier float64 `json:"scoreMultiplier"`
	Fever           bool    `json:"fever"`
	Slow            bool    `json:"slow"`

	// PiecesUntilPowerUp counts locks left before a power-up is guaranteed.
	PiecesUntilPowerUp int `json:"piecesUntilPowerUp"`
	DropIntervalMs     int64 `json:"dropIntervalMs"`
}

// BoardCode decodes a Snapshot board value back into a kind.
func BoardCode(v int8) (Kind, bool) {
	if v <= 0 {
		return 0, false
	}
	return Kind(v - 1), true
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:           s.state,
		PowerUps:        s.powers.Cells(),
		Next:            viewOf(s.next, 0, 0),
		Hold:            viewOf(s.hold, 0, 0),
		CanHold:         !s.holdUsed,
		Score:           s.score,
		Lines:           s.lines,
		Level:           s.level,
		Arcade:          s.arcade.Enabled,
		ComboCount:      s.arcade.comboCount,
		ComboMultiplier: 1,
		ScoreMultiplier: s.ScoreMultiplier(),
		Fever:           s.FeverActive(),
		Slow:            s.SlowActive(),
		DropIntervalMs:  s.EffectiveDropInterval().Milliseconds(),
	}
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if c := s.board.At(x, y); c.Filled {
				snap.Board[y][x] = int8(c.Kind) + 1
			}
		}
	}

	if s.active != nil {
		snap.Active = viewOf(s.active, s.active.X, s.active.Y)
		if gy, ok := s.GhostY(); ok {
			snap.Ghost = viewOf(s.active, s.active.X, gy)
		}
	}

	if s.arcade.Enabled {
		snap.ComboMultiplier = s.arcade.comboMultiplier
		snap.ComboRemaining = s.arcade.comboRemaining(&s.tuning, s.now)
		snap.PiecesUntilPowerUp = max(0, s.tuning.PowerUpGuaranteePieces-s.arcade.piecesSinceSpawn)
	}
	return snap
}
