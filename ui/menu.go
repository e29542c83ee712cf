package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eiannone/keyboard"
)

const (
	MenuClassic = "classic"
	MenuArcade  = "arcade"
	MenuQuit    = "exit"
)

type MenuItem struct {
	Label string
	Value string
}

type Menu struct {
	Title    string
	Subtitle string
	Items    []MenuItem
	Selected int
	Width    int
	Out      io.Writer
}

func NewMenu(title string, items []MenuItem) *Menu {
	return &Menu{
		Title:    title,
		Items:    items,
		Selected: 0,
		Width:    44,
		Out:      os.Stdout,
	}
}

// NewMainMenu is the menu shown when blockfall starts without a command.
func NewMainMenu(appName string, best int) *Menu {
	m := NewMenu(appName, []MenuItem{
		{Label: "Classic", Value: MenuClassic},
		{Label: "Arcade", Value: MenuArcade},
		{Label: "Quit", Value: MenuQuit},
	})
	if best > 0 {
		m.Subtitle = fmt.Sprintf("Best score: %d", best)
	}
	return m
}

func (m *Menu) centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width-2 {
		return string([]rune(text)[:width-2])
	}
	padding := (width - n - 2) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-n-padding-2)
}

func (m *Menu) render() {
	var sb strings.Builder
	sb.WriteString("\033[H\033[2J")

	sb.WriteString(`
 ___ _    ___   ___ _  _____ _   _    _
| _ ) |  / _ \ / __| |/ / __/_\ | |  | |
| _ \ |_| (_) | (__| ' <| _/ _ \| |__| |__
|___/____\___/ \___|_|\_\_/_/ \_\____|____|
`)
	sb.WriteString("\n")
	if m.Subtitle != "" {
		sb.WriteString(m.centerText(m.Subtitle, m.Width) + "\n\n")
	}

	inner := m.Width - 2
	sb.WriteString("╔" + strings.Repeat("═", inner) + "╗\n")
	sb.WriteString("║" + m.centerText(m.Title, m.Width) + "║\n")
	sb.WriteString("╠" + strings.Repeat("═", inner) + "╣\n")

	for i, item := range m.Items {
		prefix := "  "
		if i == m.Selected {
			prefix = "► "
		}
		paddedText := m.centerText(prefix+item.Label, m.Width)

		if i == m.Selected {
			sb.WriteString("║\033[7m" + paddedText + "\033[0m║\n") // Highlighted
		} else {
			sb.WriteString("║" + paddedText + "║\n")
		}
	}

	sb.WriteString("╚" + strings.Repeat("═", inner) + "╝\n\n")
	sb.WriteString("Use ↑/↓ arrows to navigate, Enter to select, 'q' to quit\n")
	fmt.Fprint(m.Out, sb.String())
}

func (m *Menu) moveUp() {
	if m.Selected > 0 {
		m.Selected--
	} else {
		m.Selected = len(m.Items) - 1 // Wrap to bottom
	}
}

func (m *Menu) moveDown() {
	if m.Selected < len(m.Items)-1 {
		m.Selected++
	} else {
		m.Selected = 0 // Wrap to top
	}
}

// handle applies one key and returns the chosen value, or "" to keep going.
func (m *Menu) handle(k keyPress) string {
	switch k.key {
	case keyboard.KeyArrowUp:
		m.moveUp()
	case keyboard.KeyArrowDown:
		m.moveDown()
	case keyboard.KeyEnter:
		return m.Items[m.Selected].Value
	}
	if k.char == 'w' || k.char == 'W' {
		m.moveUp()
	}
	if k.char == 's' || k.char == 'S' {
		m.moveDown()
	}
	if isQuit(k) {
		return MenuQuit
	}
	return ""
}

// Show blocks until an item is picked. A keyboard failure picks MenuQuit.
func (m *Menu) Show() string {
	if err := keyboard.Open(); err != nil {
		fmt.Fprintf(m.Out, "Failed to open keyboard: %v\n", err)
		return MenuQuit
	}
	defer keyboard.Close()

	for {
		m.render()

		char, key, err := keyboard.GetKey()
		if err != nil {
			fmt.Fprintf(m.Out, "Error reading key: %v\n", err)
			return MenuQuit
		}
		if v := m.handle(keyPress{char: char, key: key}); v != "" {
			return v
		}
	}
}
