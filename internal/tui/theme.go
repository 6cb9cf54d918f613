package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. AdaptiveColor picks the light/dark variant from the terminal background.
func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted     lipgloss.TerminalColor = ac("240", "243")
	colorAccent    lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg  lipgloss.TerminalColor = ac("255", "255")
	colorSelectBg  lipgloss.TerminalColor = ac("254", "236")
	colorDone      lipgloss.TerminalColor = ac("245", "241")
	colorWarnBg    lipgloss.TerminalColor = ac("214", "130")
	colorWarnFg    lipgloss.TerminalColor = ac("16", "230")
	colorErrorFg   lipgloss.TerminalColor = ac("160", "203")
	colorInputLine lipgloss.TerminalColor = ac("250", "238")
)

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleTab(active bool) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return st.Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	}
	return st.Foreground(colorMuted)
}

func styleRow(selected, completed bool) lipgloss.Style {
	st := lipgloss.NewStyle()
	if completed {
		st = st.Foreground(colorDone).Strikethrough(true)
	}
	if selected {
		st = st.Background(colorSelectBg).Bold(true)
	}
	return st
}

func styleWarning() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorWarnFg).Background(colorWarnBg).Padding(0, 1)
}

func styleFlash() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorErrorFg).Bold(true)
}

func styleInputBox() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorInputLine)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful for
// non-interactive output but can accidentally disable colors in a TUI. Here we only
// honor NO_COLOR and otherwise follow the terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Some terminals under-report; trust COLORTERM/TERM when they claim more.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}
