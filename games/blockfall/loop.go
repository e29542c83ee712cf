package blockfall

import "time"

// Step advances the session by elapsed wall time. The session clock moves
// by the full amount (subject to the decay policy) while gravity and
// auto-shift see at most Tuning.MaxFrameStep per call.
func (s *Session) Step(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	if s.state == StatePlaying || s.tuning.DecayPolicy == DecayRealTime {
		s.now += elapsed
	}
	s.arcade.decay(&s.tuning, s.now)

	if !s.playing() {
		return
	}
	dt := min(elapsed, s.tuning.MaxFrameStep)

	s.autoShift(dt)
	s.gravity(dt)
}

// autoShift repeats horizontal movement once the key has been held for the
// auto-shift delay.
func (s *Session) autoShift(dt time.Duration) {
	in := &s.input
	dir := in.horizDir()
	if dir != in.holdDir {
		in.holdDir = dir
		in.heldFor = 0
		in.repeatFor = 0
		return
	}
	if dir == 0 {
		return
	}
	in.heldFor += dt
	if in.heldFor < s.tuning.AutoShiftDelay {
		return
	}
	in.repeatFor += dt
	arr := s.tuning.AutoRepeatRate
	if arr <= 0 {
		arr = time.Millisecond
	}
	for in.repeatFor >= arr {
		in.repeatFor -= arr
		s.TryMove(dir, 0)
	}
}

// SoftDropInterval is the gravity interval while soft drop is held.
func (s *Session) SoftDropInterval() time.Duration {
	interval := s.EffectiveDropInterval()
	if s.tuning.SoftDropDivisor > 0 {
		interval = time.Duration(float64(interval) / s.tuning.SoftDropDivisor)
	}
	return max(s.tuning.SoftDropFloor, interval)
}

func (s *Session) gravity(dt time.Duration) {
	soft := s.input.softDrop
	interval := s.EffectiveDropInterval()
	if soft {
		interval = s.SoftDropInterval()
	}
	if interval <= 0 {
		interval = time.Millisecond
	}

	s.dropAccum += dt
	for s.dropAccum >= interval {
		s.dropAccum -= interval
		if !s.TryMove(0, -1) {
			s.lock()
			return
		}
		if soft {
			s.addPoints(1)
		}
	}
}
