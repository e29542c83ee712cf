// Package blockfall is the simulation core of a falling-block puzzle game:
// board state, piece lifecycle, collision and rotation, line clearing,
// scoring and the optional arcade layer of power-ups, combos and fever.
//
// A Session is single-threaded. Callers feed it Inputs and elapsed time
// through Apply and Step from one goroutine and read back Snapshots and
// Events for rendering.
package blockfall

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// State is the session lifecycle phase.
type State uint8

const (
	StateStart State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

var stateNames = [...]string{"start", "playing", "paused", "game_over"}

func (st State) String() string {
	if int(st) < len(stateNames) {
		return stateNames[st]
	}
	return fmt.Sprintf("State(%d)", uint8(st))
}

func (st State) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

// Session owns every piece of mutable game state for one player.
type Session struct {
	tuning Tuning
	rng    *rand.Rand

	board  Board
	powers *PowerMap
	bag    *Bag

	active   *Piece
	next     *Piece
	hold     *Piece
	holdUsed bool

	state State
	score int
	lines int
	level int

	baseInterval time.Duration
	dropAccum    time.Duration
	now          time.Duration

	arcade       arcade
	input        inputState
	piecesPlaced int
	events       []Event
}

// Option configures a Session at construction.
type Option func(*Session)

// WithRand makes piece order and power-up placement come from r.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithSeed is WithRand over a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithTuning(t Tuning) Option {
	return func(s *Session) { s.tuning = t }
}

// WithArcade starts the session with arcade mode switched on.
func WithArcade(on bool) Option {
	return func(s *Session) { s.arcade.Enabled = on }
}

// NewSession creates a fresh game waiting on the start screen. The first
// piece is already spawned so the board can be drawn behind the overlay.
func NewSession(opts ...Option) *Session {
	s := &Session{
		tuning: DefaultTuning(),
		powers: NewPowerMap(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.bag = NewBag(s.rng)
	s.reset()
	s.state = StateStart
	return s
}

// reset rebuilds board, pieces, scoring and arcade state.
func (s *Session) reset() {
	s.board.Reset()
	s.powers.Clear()
	s.score = 0
	s.lines = 0
	s.level = 1
	s.baseInterval = s.tuning.dropIntervalFor(1)
	s.dropAccum = 0
	s.input.reset()
	s.hold = nil
	s.holdUsed = false
	s.piecesPlaced = 0
	s.arcade.reset()
	s.events = nil

	s.bag.Refill()
	s.active = nil
	s.next = newPiece(s.bag.Draw())
	s.state = StatePlaying
	s.spawn()
}

// Start leaves the start screen. It reports whether the state changed.
func (s *Session) Start() bool {
	if s.state != StateStart {
		return false
	}
	s.state = StatePlaying
	return true
}

// Restart throws the current game away and begins a new one immediately.
// Arcade mode keeps its on/off setting.
func (s *Session) Restart() {
	s.reset()
}

// TogglePause flips between Playing and Paused. Pausing forgets held keys.
func (s *Session) TogglePause() bool {
	switch s.state {
	case StatePlaying:
		s.state = StatePaused
		s.input.reset()
		return true
	case StatePaused:
		s.state = StatePlaying
		return true
	}
	return false
}

// SetArcade switches arcade mode. Either way the arcade counters restart;
// switching it off also removes every power-up from the board.
func (s *Session) SetArcade(on bool) {
	s.arcade.Enabled = on
	s.arcade.reset()
	if !on {
		s.powers.Clear()
	}
}

func (s *Session) ToggleArcade() {
	s.SetArcade(!s.arcade.Enabled)
}

func (s *Session) gameOver() {
	s.state = StateGameOver
	s.input.reset()
	s.emit(Event{Type: EventGameOver, Score: s.score, Lines: s.lines, Level: s.level})
}

func (s *Session) playing() bool {
	return s.state == StatePlaying && s.active != nil
}

func (s *Session) State() State       { return s.state }
func (s *Session) Score() int         { return s.score }
func (s *Session) Lines() int         { return s.lines }
func (s *Session) Level() int         { return s.level }
func (s *Session) Arcade() bool       { return s.arcade.Enabled }
func (s *Session) Now() time.Duration { return s.now }
func (s *Session) Tuning() Tuning     { return s.tuning }
func (s *Session) PiecesPlaced() int  { return s.piecesPlaced }

// Board returns a copy of the settled stack.
func (s *Session) Board() Board { return s.board }

// PowerUps returns the overlay entries bottom-to-top.
func (s *Session) PowerUps() []PowerUpCell { return s.powers.Cells() }

// ScoreMultiplier is the combined combo and fever multiplier right now.
func (s *Session) ScoreMultiplier() float64 {
	return s.arcade.scoreMultiplier(&s.tuning, s.now)
}

// ComboCount is the length of the current clear chain.
func (s *Session) ComboCount() int { return s.arcade.comboCount }

func (s *Session) FeverActive() bool { return s.arcade.feverActive(s.now) }
func (s *Session) SlowActive() bool  { return s.arcade.slowActive(s.now) }

// EffectiveDropInterval is the gravity interval after slow and fever.
func (s *Session) EffectiveDropInterval() time.Duration {
	interval := s.baseInterval
	if s.arcade.slowActive(s.now) {
		interval = scaleDuration(interval, s.tuning.SlowFactor)
	}
	if s.arcade.feverActive(s.now) {
		interval = scaleDuration(interval, s.tuning.FeverSpeedFactor)
	}
	return max(s.tuning.EffectiveDropMin, interval)
}

// BaseDropInterval is the level-derived gravity interval.
func (s *Session) BaseDropInterval() time.Duration { return s.baseInterval }
