package blockfall

import "time"

type lineEvent struct {
	at    time.Duration
	lines int
}

// arcade holds the combo, fever, slow and power-up counters of one session.
// All timestamps are on the session clock.
type arcade struct {
	Enabled bool

	comboCount      int
	comboMultiplier float64
	lastClearAt     time.Duration
	cleared         bool // lastClearAt is meaningful

	feverUntil time.Duration
	recent     []lineEvent
	slowUntil  time.Duration

	piecesSinceSpawn int
	linesSinceSpawn  int
}

func (a *arcade) reset() {
	a.comboCount = 0
	a.comboMultiplier = 1
	a.lastClearAt = 0
	a.cleared = false
	a.feverUntil = 0
	a.recent = a.recent[:0]
	a.slowUntil = 0
	a.piecesSinceSpawn = 0
	a.linesSinceSpawn = 0
}

func (a *arcade) feverActive(now time.Duration) bool {
	return a.Enabled && now < a.feverUntil
}

func (a *arcade) slowActive(now time.Duration) bool {
	return a.Enabled && now < a.slowUntil
}

// scoreMultiplier composes combo and fever. Classic mode always scores 1x.
func (a *arcade) scoreMultiplier(t *Tuning, now time.Duration) float64 {
	if !a.Enabled {
		return 1
	}
	mult := a.comboMultiplier
	if a.feverActive(now) {
		mult *= t.FeverScoreFactor
	}
	return mult
}

// onLinesCleared updates the combo chain and the fever log. It reports
// whether this clear switched fever on.
func (a *arcade) onLinesCleared(t *Tuning, now time.Duration, lines int) bool {
	if !a.Enabled || lines <= 0 {
		return false
	}

	if a.cleared && now-a.lastClearAt <= t.ComboWindow {
		a.comboCount++
	} else {
		a.comboCount = 1
	}
	a.lastClearAt = now
	a.cleared = true
	a.comboMultiplier = 1 + min(t.ComboMaxBonus, float64(a.comboCount-1)*t.ComboStep)

	a.recent = append(a.recent, lineEvent{at: now, lines: lines})
	kept := a.recent[:0]
	sum := 0
	for _, e := range a.recent {
		if now-e.at <= t.FeverWindow {
			kept = append(kept, e)
			sum += e.lines
		}
	}
	a.recent = kept

	if sum < t.FeverLines {
		return false
	}
	wasActive := a.feverActive(now)
	a.feverUntil = max(a.feverUntil, now+t.FeverDuration)
	a.recent = a.recent[:0]
	return !wasActive
}

// decay drops the combo once its window has run out.
func (a *arcade) decay(t *Tuning, now time.Duration) {
	if !a.Enabled || a.comboCount == 0 {
		return
	}
	if !a.cleared || now-a.lastClearAt > t.ComboWindow {
		a.comboCount = 0
		a.comboMultiplier = 1
	}
}

// comboRemaining is the fraction of the combo window still left, in [0, 1].
func (a *arcade) comboRemaining(t *Tuning, now time.Duration) float64 {
	if !a.Enabled || !a.cleared || a.comboCount == 0 || t.ComboWindow <= 0 {
		return 0
	}
	left := 1 - float64(now-a.lastClearAt)/float64(t.ComboWindow)
	return min(max(left, 0), 1)
}
