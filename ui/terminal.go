package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/isaacjstriker/blockfall/games/blockfall"
	"github.com/isaacjstriker/blockfall/internal/bestscore"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("blockfall needs an interactive terminal")

const toastDuration = 2 * time.Second

// Terminal plays one Session from the keyboard.
type Terminal struct {
	Out   io.Writer
	Color bool
	Tick  time.Duration

	session *blockfall.Session
	tracker *bestscore.Tracker
	holds   *keyHold

	toast        string
	toastUntil   time.Time
	newBestShown bool
	lastState    blockfall.State
}

func NewTerminal(session *blockfall.Session, tracker *bestscore.Tracker) *Terminal {
	return &Terminal{
		Out:     os.Stdout,
		Color:   supportsColor(),
		Tick:    16 * time.Millisecond,
		session: session,
		tracker: tracker,
		holds:   newKeyHold(),
	}
}

// checkTerminal makes sure stdin is interactive and stdout can fit a frame.
func checkTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNotTerminal
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		// Size is unknown, not necessarily too small.
		return nil
	}
	if w < minWidth || h < minHeight {
		return fmt.Errorf("terminal is %dx%d, blockfall needs at least %dx%d", w, h, minWidth, minHeight)
	}
	return nil
}

// Run plays until the player quits or ctx is done. It returns the final
// snapshot.
func (t *Terminal) Run(ctx context.Context) (blockfall.Snapshot, error) {
	if err := checkTerminal(); err != nil {
		return blockfall.Snapshot{}, err
	}
	if err := keyboard.Open(); err != nil {
		return blockfall.Snapshot{}, fmt.Errorf("failed to open keyboard: %w", err)
	}
	defer keyboard.Close()

	done := make(chan struct{})
	defer close(done)
	keys := readKeys(done)

	t.tracker.Load(ctx)
	t.lastState = t.session.State()

	ticker := time.NewTicker(t.Tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return t.session.Snapshot(), ctx.Err()

		case k, ok := <-keys:
			if !ok || isQuit(k) {
				return t.session.Snapshot(), nil
			}
			t.handleKey(k, time.Now())

		case now := <-ticker.C:
			for _, c := range t.holds.expire(now) {
				t.session.Apply(blockfall.Release(c))
			}
			t.session.Step(now.Sub(last))
			last = now

			if err := t.frame(ctx, now); err != nil {
				return t.session.Snapshot(), err
			}
		}
	}
}

// readKeys pumps keyboard.GetKey into a channel until done is closed.
func readKeys(done <-chan struct{}) <-chan keyPress {
	keys := make(chan keyPress, 16)
	go func() {
		defer close(keys)
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				select {
				case <-done:
					return
				case <-time.After(10 * time.Millisecond):
					continue
				}
			}
			select {
			case keys <- keyPress{char: char, key: key}:
			case <-done:
				return
			}
		}
	}()
	return keys
}

func (t *Terminal) handleKey(k keyPress, now time.Time) {
	cmd, ok := commandFor(k)
	if !ok {
		return
	}
	if holdable(cmd) {
		if !t.holds.press(cmd, now) {
			return
		}
	} else if cmd == blockfall.CmdTogglePause || cmd == blockfall.CmdRestart {
		// The session forgets held keys here, so must we.
		t.holds.clear()
		if cmd == blockfall.CmdRestart {
			t.newBestShown = false
		}
	}
	t.session.Apply(blockfall.Press(cmd))
}

// frame feeds the best-score tracker, raises toasts and draws.
func (t *Terminal) frame(ctx context.Context, now time.Time) error {
	state := t.session.State()
	if state == blockfall.StatePlaying && t.lastState != blockfall.StatePlaying && t.lastState != blockfall.StatePaused {
		t.newBestShown = false
	}
	t.lastState = state

	hadBest := t.tracker.Best() > 0
	if t.tracker.Observe(ctx, t.session.Score()) && hadBest && !t.newBestShown {
		t.newBestShown = true
		t.showToast("NEW BEST!", now)
	}

	for _, e := range t.session.DrainEvents() {
		switch e.Type {
		case blockfall.EventFeverStarted:
			t.showToast("FEVER!", now)
		case blockfall.EventLevelUp:
			t.showToast(fmt.Sprintf("Level %d", e.Level), now)
		case blockfall.EventPowerUpTriggered:
			t.showToast(e.PowerUp.Label()+"!", now)
		}
	}

	if err := Render(t.Out, t.session.Snapshot(), t.tracker.Best(), t.Color); err != nil {
		return err
	}
	if t.toast != "" && now.Before(t.toastUntil) {
		_, err := fmt.Fprintln(t.Out, t.toast)
		return err
	}
	return nil
}

func (t *Terminal) showToast(msg string, now time.Time) {
	t.toast = msg
	t.toastUntil = now.Add(toastDuration)
}
