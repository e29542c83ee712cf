package blockfall

import "fmt"

// PowerUp is a collectible arcade item.
type PowerUp uint8

const (
	Bomb PowerUp = iota + 1
	Slow
	ColumnWipe
	BottomClear
)

// AllPowerUps lists the kinds the spawn policy picks from.
var AllPowerUps = [...]PowerUp{Bomb, Slow, ColumnWipe, BottomClear}

var powerUpInfo = [...]struct {
	name  string
	label string
	color uint32
}{
	Bomb:        {"bomb", "Bomb", 0xff3b30},
	Slow:        {"slow", "Slow", 0x0a84ff},
	ColumnWipe:  {"column_wipe", "Column", 0xaf52de},
	BottomClear: {"bottom_clear", "Bottom", 0x30d158},
}

func (p PowerUp) valid() bool {
	return p >= Bomb && int(p) < len(powerUpInfo)
}

func (p PowerUp) String() string {
	if !p.valid() {
		return fmt.Sprintf("PowerUp(%d)", uint8(p))
	}
	return powerUpInfo[p].name
}

func (p PowerUp) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Label is the short display name.
func (p PowerUp) Label() string {
	if !p.valid() {
		return "?"
	}
	return powerUpInfo[p].label
}

func (p PowerUp) Color() uint32 {
	if !p.valid() {
		return 0xffffff
	}
	return powerUpInfo[p].color
}

// Cause tells how a power-up was triggered.
type Cause uint8

const (
	// CauseCollect means a locking piece landed on the power-up.
	CauseCollect Cause = iota + 1
	// CauseLineClear means the power-up's row was cleared.
	CauseLineClear
)

func (c Cause) String() string {
	switch c {
	case CauseCollect:
		return "collect"
	case CauseLineClear:
		return "line_clear"
	}
	return ""
}

func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// triggerPowerUp reports the trigger and applies its effect. The caller
// has already removed the entry from the overlay.
func (s *Session) triggerPowerUp(kind PowerUp, x, y int, cause Cause) {
	if !s.arcade.Enabled {
		return
	}
	s.emit(Event{Type: EventPowerUpTriggered, PowerUp: kind, Cell: Point{X: x, Y: y}, Cause: cause})
	s.applyPowerUp(kind, x, y)
}

func (s *Session) applyPowerUp(kind PowerUp, x, y int) {
	switch kind {
	case Bomb:
		for yy := y - 1; yy <= y+1; yy++ {
			for xx := x - 1; xx <= x+1; xx++ {
				s.board.clearCell(xx, yy)
			}
		}
	case Slow:
		s.arcade.slowUntil = max(s.arcade.slowUntil, s.now+s.tuning.SlowDuration)
	case ColumnWipe:
		s.board.clearColumn(x)
	case BottomClear:
		s.board.clearRow(0)
	}
}

// maybeSpawnPowerUp runs the arcade spawn policy once. It returns true when
// a power-up was placed.
func (s *Session) maybeSpawnPowerUp() bool {
	if !s.arcade.Enabled {
		return false
	}
	t := &s.tuning
	a := &s.arcade

	guaranteed := a.piecesSinceSpawn >= t.PowerUpGuaranteePieces || a.linesSinceSpawn >= t.PowerUpGuaranteeLines
	if !guaranteed {
		if a.piecesSinceSpawn < t.PowerUpMinPieces || s.rng.Float64() >= t.PowerUpChance {
			return false
		}
	}

	cell, ok := s.pickPowerUpCell()
	if !ok {
		return false
	}

	kind := AllPowerUps[s.rng.IntN(len(AllPowerUps))]
	s.powers.Put(cell.X, cell.Y, kind)
	a.piecesSinceSpawn = 0
	a.linesSinceSpawn = 0
	s.emit(Event{Type: EventPowerUpSpawned, PowerUp: kind, Cell: cell})
	return true
}

// pickPowerUpCell samples the upper part of the board for an empty cell
// that carries no power-up and is not under the active piece.
func (s *Session) pickPowerUpCell() (Point, bool) {
	yMin := int(float64(Rows) * s.tuning.PowerUpMinRowFraction)
	yMin = min(max(yMin, 0), Rows-1)
	span := Rows - yMin

	for tries := 0; tries < s.tuning.PowerUpSpawnTries; tries++ {
		x := s.rng.IntN(Cols)
		y := yMin + s.rng.IntN(span)
		if s.board.Occupied(x, y) || s.powers.Has(x, y) || s.activeCovers(x, y) {
			continue
		}
		return Point{X: x, Y: y}, true
	}
	return Point{}, false
}
