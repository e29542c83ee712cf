package blockfall

import (
	"fmt"
	"strings"
	"time"
)

// Command is a player intent delivered by a frontend.
type Command uint8

const (
	CmdMoveLeft Command = iota + 1
	CmdMoveRight
	CmdSoftDrop
	CmdHardDrop
	CmdRotateCW
	CmdRotateCCW
	CmdHold
	CmdTogglePause
	CmdToggleArcade
	CmdRestart
	CmdStart
)

var commandNames = [...]string{
	CmdMoveLeft:     "move_left",
	CmdMoveRight:    "move_right",
	CmdSoftDrop:     "soft_drop",
	CmdHardDrop:     "hard_drop",
	CmdRotateCW:     "rotate_cw",
	CmdRotateCCW:    "rotate_ccw",
	CmdHold:         "hold",
	CmdTogglePause:  "toggle_pause",
	CmdToggleArcade: "toggle_arcade",
	CmdRestart:      "restart",
	CmdStart:        "start",
}

func (c Command) String() string {
	if c > 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

func (c Command) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Command) UnmarshalText(b []byte) error {
	cmd, err := ParseCommand(string(b))
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}

// ParseCommand looks a command up by its wire name.
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range commandNames {
		if i > 0 && n == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Input is one press or release of a command. Only the movement and soft
// drop commands have meaningful releases.
type Input struct {
	Command Command `json:"command"`
	Release bool    `json:"release,omitempty"`
}

func Press(c Command) Input   { return Input{Command: c} }
func Release(c Command) Input { return Input{Command: c, Release: true} }

// inputState tracks held keys and the auto-shift timers.
type inputState struct {
	left, right bool
	lastHoriz   int // -1, 0 or 1: the most recently pressed horizontal key
	softDrop    bool

	holdDir   int
	heldFor   time.Duration
	repeatFor time.Duration
}

func (in *inputState) reset() {
	*in = inputState{}
}

// horizDir resolves the held horizontal direction. With both keys down the
// more recently pressed one wins.
func (in *inputState) horizDir() int {
	switch {
	case in.left && in.right:
		return in.lastHoriz
	case in.left:
		return -1
	case in.right:
		return 1
	}
	return 0
}

func (in *inputState) restartShift() {
	in.holdDir = in.horizDir()
	in.heldFor = 0
	in.repeatFor = 0
}

// Apply feeds one input to the session. It reports whether the input was
// acted on.
func (s *Session) Apply(in Input) bool {
	if in.Release {
		return s.release(in.Command)
	}

	switch in.Command {
	case CmdStart:
		return s.Start()
	case CmdTogglePause:
		return s.TogglePause()
	case CmdRestart:
		s.Restart()
		return true
	case CmdToggleArcade:
		s.ToggleArcade()
		return true
	case CmdHold:
		return s.Hold()
	}

	switch in.Command {
	case CmdMoveLeft, CmdMoveRight:
		dir := -1
		if in.Command == CmdMoveRight {
			dir = 1
			s.input.right = true
		} else {
			s.input.left = true
		}
		s.input.lastHoriz = dir
		if !s.playing() {
			return false
		}
		moved := false
		if d := s.input.horizDir(); d != 0 {
			moved = s.TryMove(d, 0)
		}
		s.input.restartShift()
		return moved
	case CmdSoftDrop:
		s.input.softDrop = true
		if !s.playing() {
			return false
		}
		if s.TryMove(0, -1) {
			s.addPoints(1)
		} else {
			s.lock()
		}
		return true
	case CmdHardDrop:
		return s.HardDrop()
	case CmdRotateCW:
		return s.TryRotate(Clockwise)
	case CmdRotateCCW:
		return s.TryRotate(CounterClockwise)
	}
	return false
}

func (s *Session) release(c Command) bool {
	switch c {
	case CmdMoveLeft, CmdMoveRight:
		if c == CmdMoveLeft {
			s.input.left = false
		} else {
			s.input.right = false
		}
		switch {
		case s.input.left:
			s.input.lastHoriz = -1
		case s.input.right:
			s.input.lastHoriz = 1
		default:
			s.input.lastHoriz = 0
		}
		s.input.restartShift()
		return true
	case CmdSoftDrop:
		s.input.softDrop = false
		return true
	}
	return false
}

// SoftDropping reports whether the soft drop key is held.
func (s *Session) SoftDropping() bool { return s.input.softDrop }
