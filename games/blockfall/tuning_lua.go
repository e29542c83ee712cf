package blockfall

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LoadTuning reads gameplay constants from a Lua script that returns a
// table with "timing", "arcade" and "power_ups" sections. Durations are in
// milliseconds. Keys that are missing or of the wrong type keep their
// default. A missing or broken script yields DefaultTuning and an error.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[INFO] %s not found, using default tuning", path)
		}
		return t, fmt.Errorf("stat tuning file: %w", err)
	}

	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return t, fmt.Errorf("load tuning file %s: %w", path, err)
	}

	root, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return t, fmt.Errorf("tuning file %s must return a table", path)
	}

	if tbl, ok := root.RawGetString("timing").(*lua.LTable); ok {
		t.MaxFrameStep = getLuaMillis(tbl, "max_frame_step", t.MaxFrameStep)
		t.AutoShiftDelay = getLuaMillis(tbl, "das", t.AutoShiftDelay)
		t.AutoRepeatRate = getLuaMillis(tbl, "arr", t.AutoRepeatRate)
		t.SoftDropDivisor = getLuaFloat(tbl, "soft_drop_divisor", t.SoftDropDivisor)
		t.SoftDropFloor = getLuaMillis(tbl, "soft_drop_floor", t.SoftDropFloor)
		t.BaseDropInterval = getLuaMillis(tbl, "base_drop_interval", t.BaseDropInterval)
		t.DropIntervalStep = getLuaMillis(tbl, "drop_interval_step", t.DropIntervalStep)
		t.MinDropInterval = getLuaMillis(tbl, "min_drop_interval", t.MinDropInterval)
		t.EffectiveDropMin = getLuaMillis(tbl, "effective_drop_min", t.EffectiveDropMin)
		t.LinesPerLevel = getLuaInt(tbl, "lines_per_level", t.LinesPerLevel)
		t.HardDropRowPoints = getLuaInt(tbl, "hard_drop_row_points", t.HardDropRowPoints)
	}

	if tbl, ok := root.RawGetString("arcade").(*lua.LTable); ok {
		t.ComboWindow = getLuaMillis(tbl, "combo_window", t.ComboWindow)
		t.ComboStep = getLuaFloat(tbl, "combo_step", t.ComboStep)
		t.ComboMaxBonus = getLuaFloat(tbl, "combo_max_bonus", t.ComboMaxBonus)
		t.FeverWindow = getLuaMillis(tbl, "fever_window", t.FeverWindow)
		t.FeverLines = getLuaInt(tbl, "fever_lines", t.FeverLines)
		t.FeverDuration = getLuaMillis(tbl, "fever_duration", t.FeverDuration)
		t.FeverScoreFactor = getLuaFloat(tbl, "fever_score_factor", t.FeverScoreFactor)
		t.FeverSpeedFactor = getLuaFloat(tbl, "fever_speed_factor", t.FeverSpeedFactor)

		if s, ok := tbl.RawGetString("decay_on_pause").(lua.LString); ok {
			policy, err := ParseDecayPolicy(string(s))
			if err != nil {
				return DefaultTuning(), fmt.Errorf("tuning file %s: %w", path, err)
			}
			t.DecayPolicy = policy
		}
	}

	if tbl, ok := root.RawGetString("power_ups").(*lua.LTable); ok {
		t.SlowDuration = getLuaMillis(tbl, "slow_duration", t.SlowDuration)
		t.SlowFactor = getLuaFloat(tbl, "slow_factor", t.SlowFactor)
		t.PowerUpMinPieces = getLuaInt(tbl, "min_pieces", t.PowerUpMinPieces)
		t.PowerUpGuaranteePieces = getLuaInt(tbl, "guarantee_pieces", t.PowerUpGuaranteePieces)
		t.PowerUpGuaranteeLines = getLuaInt(tbl, "guarantee_lines", t.PowerUpGuaranteeLines)
		t.PowerUpChance = getLuaFloat(tbl, "chance", t.PowerUpChance)
		t.PowerUpSpawnTries = getLuaInt(tbl, "spawn_tries", t.PowerUpSpawnTries)
		t.PowerUpMinRowFraction = getLuaFloat(tbl, "min_row_fraction", t.PowerUpMinRowFraction)
	}

	if reset := t.sanitize(); len(reset) > 0 {
		log.Printf("[WARN] %s: out of range values reset to defaults: %s", path, strings.Join(reset, ", "))
	}
	return t, nil
}

func getLuaInt(tbl *lua.LTable, key string, fallback int) int {
	if num, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(num)
	}
	return fallback
}

func getLuaFloat(tbl *lua.LTable, key string, fallback float64) float64 {
	if num, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(num)
	}
	return fallback
}

func getLuaMillis(tbl *lua.LTable, key string, fallback time.Duration) time.Duration {
	if num, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return time.Duration(float64(num) * float64(time.Millisecond))
	}
	return fallback
}
