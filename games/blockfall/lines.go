package blockfall

import "math"

// lineClearBase is indexed by the number of rows cleared at once.
var lineClearBase = [...]int{0, 40, 100, 300, 1200}

// LineClearPoints scores a clear of n rows at level with multiplier mult.
func LineClearPoints(n, level int, mult float64) int {
	if n <= 0 || n >= len(lineClearBase) {
		return 0
	}
	return int(math.Round(float64(lineClearBase[n]*level) * mult))
}

// addPoints awards base points scaled by the current multiplier.
func (s *Session) addPoints(base float64) {
	if base <= 0 {
		return
	}
	s.score += int(math.Round(base * s.ScoreMultiplier()))
}

// clearLines removes every full row, bottom to top, and settles scoring,
// combo, fever and level. It returns the number of rows removed.
func (s *Session) clearLines() int {
	cleared := 0
	for y := 0; y < Rows; y++ {
		if !s.board.RowFull(y) {
			continue
		}
		if s.arcade.Enabled {
			for x := 0; x < Cols; x++ {
				if kind, ok := s.powers.Take(x, y); ok {
					s.triggerPowerUp(kind, x, y, CauseLineClear)
				}
			}
		}
		s.board.removeRow(y)
		s.powers.CollapseRow(y)
		// a new row slid into y
		y--
		cleared++
	}
	if cleared == 0 {
		return 0
	}

	s.lines += cleared
	s.score += LineClearPoints(cleared, s.level, s.ScoreMultiplier())
	s.emit(Event{Type: EventLinesCleared, Lines: cleared, Score: s.score})

	if s.arcade.onLinesCleared(&s.tuning, s.now, cleared) {
		s.emit(Event{Type: EventFeverStarted})
	}

	if level := s.tuning.levelFor(s.lines); level != s.level {
		s.level = level
		s.baseInterval = s.tuning.dropIntervalFor(level)
		s.emit(Event{Type: EventLevelUp, Level: level})
	}
	return cleared
}
