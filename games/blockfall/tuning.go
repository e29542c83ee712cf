package blockfall

import (
	"fmt"
	"strings"
	"time"
)

// DecayPolicy decides whether arcade timers keep running while paused.
type DecayPolicy uint8

const (
	// DecayRealTime advances the session clock while paused, so combo and
	// fever windows keep running out behind the pause screen.
	DecayRealTime DecayPolicy = iota
	// DecayFreezeOnPause only advances the session clock while playing.
	DecayFreezeOnPause
)

func (p DecayPolicy) String() string {
	if p == DecayFreezeOnPause {
		return "freeze"
	}
	return "realtime"
}

// ParseDecayPolicy accepts "realtime" or "freeze".
func ParseDecayPolicy(s string) (DecayPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "realtime", "real-time", "wallclock":
		return DecayRealTime, nil
	case "freeze", "frozen", "pause":
		return DecayFreezeOnPause, nil
	}
	return DecayRealTime, fmt.Errorf("unknown decay policy %q", s)
}

// Tuning holds every gameplay constant.
type Tuning struct {
	// Timing
	MaxFrameStep      time.Duration
	AutoShiftDelay    time.Duration // DAS
	AutoRepeatRate    time.Duration // ARR
	SoftDropDivisor   float64
	SoftDropFloor     time.Duration
	BaseDropInterval  time.Duration
	DropIntervalStep  time.Duration
	MinDropInterval   time.Duration
	EffectiveDropMin  time.Duration
	LinesPerLevel     int
	HardDropRowPoints int

	// Combo and fever
	ComboWindow      time.Duration
	ComboStep        float64
	ComboMaxBonus    float64
	FeverWindow      time.Duration
	FeverLines       int
	FeverDuration    time.Duration
	FeverScoreFactor float64
	FeverSpeedFactor float64

	// Power-ups
	SlowDuration           time.Duration
	SlowFactor             float64
	PowerUpMinPieces       int
	PowerUpGuaranteePieces int
	PowerUpGuaranteeLines  int
	PowerUpChance          float64
	PowerUpSpawnTries      int
	PowerUpMinRowFraction  float64

	DecayPolicy DecayPolicy
}

// DefaultTuning returns the stock game constants.
func DefaultTuning() Tuning {
	return Tuning{
		MaxFrameStep:      50 * time.Millisecond,
		AutoShiftDelay:    120 * time.Millisecond,
		AutoRepeatRate:    35 * time.Millisecond,
		SoftDropDivisor:   14,
		SoftDropFloor:     30 * time.Millisecond,
		BaseDropInterval:  800 * time.Millisecond,
		DropIntervalStep:  55 * time.Millisecond,
		MinDropInterval:   90 * time.Millisecond,
		EffectiveDropMin:  40 * time.Millisecond,
		LinesPerLevel:     10,
		HardDropRowPoints: 2,

		ComboWindow:      1400 * time.Millisecond,
		ComboStep:        0.25,
		ComboMaxBonus:    6,
		FeverWindow:      4500 * time.Millisecond,
		FeverLines:       6,
		FeverDuration:    8000 * time.Millisecond,
		FeverScoreFactor: 1.75,
		FeverSpeedFactor: 0.92,

		SlowDuration:           10 * time.Second,
		SlowFactor:             1.65,
		PowerUpMinPieces:       6,
		PowerUpGuaranteePieces: 12,
		PowerUpGuaranteeLines:  6,
		PowerUpChance:          0.12,
		PowerUpSpawnTries:      90,
		PowerUpMinRowFraction:  0.45,

		DecayPolicy: DecayRealTime,
	}
}

// sanitize puts values the loop cannot run with back to their defaults
// and returns the names it reset.
func (t *Tuning) sanitize() []string {
	d := DefaultTuning()
	var reset []string
	positive := func(name string, v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
			reset = append(reset, name)
		}
	}
	positive("max_frame_step", &t.MaxFrameStep, d.MaxFrameStep)
	positive("arr", &t.AutoRepeatRate, d.AutoRepeatRate)
	positive("soft_drop_floor", &t.SoftDropFloor, d.SoftDropFloor)
	positive("base_drop_interval", &t.BaseDropInterval, d.BaseDropInterval)
	positive("min_drop_interval", &t.MinDropInterval, d.MinDropInterval)
	positive("effective_drop_min", &t.EffectiveDropMin, d.EffectiveDropMin)
	positive("combo_window", &t.ComboWindow, d.ComboWindow)
	positive("fever_window", &t.FeverWindow, d.FeverWindow)

	if t.AutoShiftDelay < 0 {
		t.AutoShiftDelay = d.AutoShiftDelay
		reset = append(reset, "das")
	}
	if t.SoftDropDivisor <= 0 {
		t.SoftDropDivisor = d.SoftDropDivisor
		reset = append(reset, "soft_drop_divisor")
	}
	if t.LinesPerLevel <= 0 {
		t.LinesPerLevel = d.LinesPerLevel
		reset = append(reset, "lines_per_level")
	}
	return reset
}

// dropIntervalFor returns the base gravity interval for a level.
func (t *Tuning) dropIntervalFor(level int) time.Duration {
	d := t.BaseDropInterval - time.Duration(level-1)*t.DropIntervalStep
	return max(t.MinDropInterval, d)
}

// levelFor derives the level from the cumulative line count.
func (t *Tuning) levelFor(lines int) int {
	per := t.LinesPerLevel
	if per <= 0 {
		per = 10
	}
	return lines/per + 1
}

func scaleDuration(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}
