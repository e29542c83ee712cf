package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isaacjstriker/blockfall/games/blockfall"
)

const (
	// Board plus the side panel.
	minWidth  = 2*blockfall.Cols + 2 + 24
	minHeight = blockfall.Rows + 4
)

var asciiCells = [...]string{"##", "@@", "**", "%%", "&&", "++", "=="}

func supportsColor() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

func paint(rgb uint32, text string) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm%s\033[0m", rgb>>16&0xff, rgb>>8&0xff, rgb&0xff, text)
}

func kindCell(k blockfall.Kind, color bool) string {
	if color {
		return paint(k.Color(), "  ")
	}
	return asciiCells[int(k)%len(asciiCells)]
}

func ghostCell(color bool) string {
	if color {
		return "\033[2m[]\033[0m"
	}
	return "[]"
}

func powerUpCell(p blockfall.PowerUp, color bool) string {
	label := strings.ToUpper(p.Label()[:1])
	if color {
		return fmt.Sprintf("\033[38;2;%d;%d;%dm<%s\033[0m", p.Color()>>16&0xff, p.Color()>>8&0xff, p.Color()&0xff, label)
	}
	return "<" + label
}

func emptyCell(color bool) string {
	if color {
		return "  "
	}
	return ".."
}

// boardCells lays out one frame, top row first.
func boardCells(snap blockfall.Snapshot, color bool) [blockfall.Rows][blockfall.Cols]string {
	var cells [blockfall.Rows][blockfall.Cols]string
	set := func(x, y int, s string) {
		if x >= 0 && x < blockfall.Cols && y >= 0 && y < blockfall.Rows {
			cells[blockfall.Rows-1-y][x] = s
		}
	}

	for y := 0; y < blockfall.Rows; y++ {
		for x := 0; x < blockfall.Cols; x++ {
			if k, ok := blockfall.BoardCode(snap.Board[y][x]); ok {
				set(x, y, kindCell(k, color))
			} else {
				set(x, y, emptyCell(color))
			}
		}
	}
	for _, p := range snap.PowerUps {
		set(p.X, p.Y, powerUpCell(p.Kind, color))
	}
	if snap.Ghost != nil {
		for _, c := range snap.Ghost.Cells {
			set(c.X, c.Y, ghostCell(color))
		}
	}
	if snap.Active != nil {
		for _, c := range snap.Active.Cells {
			set(c.X, c.Y, kindCell(snap.Active.Kind, color))
		}
	}
	return cells
}

// preview draws a next/hold piece into at most two text rows.
func preview(v *blockfall.PieceView, color bool) []string {
	if v == nil {
		return []string{"", ""}
	}
	w, h := 0, 0
	for _, c := range v.Cells {
		w = max(w, c.X+1)
		h = max(h, c.Y+1)
	}
	rows := make([]string, 0, h)
	for y := h - 1; y >= 0; y-- {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			filled := false
			for _, c := range v.Cells {
				if c.X == x && c.Y == y {
					filled = true
					break
				}
			}
			if filled {
				sb.WriteString(kindCell(v.Kind, color))
			} else {
				sb.WriteString("  ")
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func sidePanel(snap blockfall.Snapshot, best int, color bool) []string {
	mode := "Classic"
	if snap.Arcade {
		mode = "Arcade"
	}
	lines := []string{
		fmt.Sprintf("Mode:  %s", mode),
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Best:  %d", best),
		fmt.Sprintf("Lines: %d", snap.Lines),
		fmt.Sprintf("Level: %d", snap.Level),
		"",
		"Next:",
	}
	lines = append(lines, preview(snap.Next, color)...)
	lines = append(lines, "", "Hold:")
	if snap.Hold != nil && !snap.CanHold {
		lines[len(lines)-1] = "Hold: (used)"
	}
	lines = append(lines, preview(snap.Hold, color)...)

	if snap.Arcade {
		lines = append(lines, "",
			fmt.Sprintf("Combo: %d (x%.2f)", snap.ComboCount, snap.ComboMultiplier),
			"[" + meter(snap.ComboRemaining, 10) + "]",
			fmt.Sprintf("Power-up in %d", snap.PiecesUntilPowerUp),
		)
		if snap.Fever {
			lines = append(lines, fmt.Sprintf("FEVER x%.2f", snap.ScoreMultiplier))
		}
		if snap.Slow {
			lines = append(lines, "SLOW")
		}
	}
	return lines
}

func meter(fraction float64, width int) string {
	n := int(fraction*float64(width) + 0.5)
	n = min(max(n, 0), width)
	return strings.Repeat("=", n) + strings.Repeat(" ", width-n)
}

func statusLine(snap blockfall.Snapshot) string {
	switch snap.State {
	case blockfall.StateStart:
		return "Press Enter to start"
	case blockfall.StatePaused:
		return "PAUSED - P to resume"
	case blockfall.StateGameOver:
		return fmt.Sprintf("GAME OVER - final score %d. R to restart, Q to quit", snap.Score)
	}
	return ""
}

// Render writes one full frame for snap.
func Render(w io.Writer, snap blockfall.Snapshot, best int, color bool) error {
	bw := bufio.NewWriter(w)
	cells := boardCells(snap, color)
	panel := sidePanel(snap, best, color)

	fmt.Fprint(bw, "\033[H\033[2J")
	fmt.Fprintln(bw, "BLOCKFALL")
	fmt.Fprintln(bw, "╔"+strings.Repeat("═", blockfall.Cols*2)+"╗")
	for i, row := range cells {
		fmt.Fprint(bw, "║", strings.Join(row[:], ""), "║")
		if i < len(panel) {
			fmt.Fprint(bw, "  ", panel[i])
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw, "╚"+strings.Repeat("═", blockfall.Cols*2)+"╝")
	if status := statusLine(snap); status != "" {
		fmt.Fprintln(bw, status)
	}
	fmt.Fprintln(bw, "←/→ move  ↓ soft drop  Space hard drop  ↑/X rotate  Z ccw  C hold  P pause  M arcade  Q quit")
	return bw.Flush()
}
