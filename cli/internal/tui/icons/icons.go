// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Dive, status, and action icons for the planner TUI

package icons

import (
	"os"
	"strings"
	"sync"
)

// EnvVar forces Nerd Font icons on ("1", "true") or off (anything else)
const EnvVar = "DECOPLAN_NERD_FONTS"

// Terminals that usually ship with a patched font
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

var hasNerdFonts = sync.OnceValue(detectNerdFonts)

func detectNerdFonts() bool {
	if env := os.Getenv(EnvVar); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}
	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	term := strings.ToLower(os.Getenv("TERM_PROGRAM") + " " + os.Getenv("TERM"))
	for _, t := range nerdFontTerminals {
		if strings.Contains(term, t) {
			return true
		}
	}
	return false
}

// HasNerdFonts reports whether Nerd Font glyphs are used. Detection runs once.
func HasNerdFonts() bool {
	return hasNerdFonts()
}

// Icon pairs a Nerd Font glyph with a plain Unicode fallback
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Plan
	Clock   = Icon{"󰥔", "◷"}
	Gas     = Icon{"󰝨", "◍"}
	Stop    = Icon{"󰏤", "■"}
	Tissue  = Icon{"󰋑", "♥"}
	Profile = Icon{"󰄭", "▁"}

	// Status
	CheckOK  = Icon{"", "✓"}
	Warning  = Icon{"", "⚠"}
	Critical = Icon{"", "✗"}
	Info     = Icon{"", "ℹ"}
	Dot      = Icon{"•", "•"}

	// Actions
	Edit     = Icon{"󰏫", "✎"}
	Strategy = Icon{"󰕮", "≡"}
	Back     = Icon{"󰁍", "←"}
	Quit     = Icon{"󰗼", "×"}
	Settings = Icon{"󰒓", "⚙"}

	App = Icon{"󰈸", "◈"}
)
