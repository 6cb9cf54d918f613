package tui

import "strings"

// Terminal apps can't change the user's font, so we offer an ASCII fallback
// for fonts that render the Unicode checkboxes poorly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

func parseGlyphs(s string) glyphSet {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii":
		return glyphSetASCII
	default:
		return glyphSetUnicode
	}
}

func (gs glyphSet) checkbox(done bool) string {
	if gs == glyphSetASCII {
		if done {
			return "[x]"
		}
		return "[ ]"
	}
	if done {
		return "☑"
	}
	return "☐"
}

func (gs glyphSet) cursor() string {
	if gs == glyphSetASCII {
		return ">"
	}
	return "›"
}

func (gs glyphSet) ellipsis() string {
	if gs == glyphSetASCII {
		return "..."
	}
	return "…"
}
