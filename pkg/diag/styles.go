package diag

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette
var (
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorInfo    = lipgloss.Color("#06B6D4") // Cyan
	ColorGutter  = lipgloss.Color("#3B82F6") // Blue
)

// ColorMode selects whether reports carry ANSI styling.
type ColorMode int

const (
	ColorAuto ColorMode = iota // let the renderer inspect the writer
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode accepts auto, always or never.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return 0, fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

type styles struct {
	severity map[Severity]lipgloss.Style
	message  lipgloss.Style
	gutter   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, mode ColorMode) styles {
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		severity: map[Severity]lipgloss.Style{
			Error:   r.NewStyle().Foreground(ColorError).Bold(true),
			Warning: r.NewStyle().Foreground(ColorWarning).Bold(true),
			Info:    r.NewStyle().Foreground(ColorInfo).Bold(true),
		},
		message: r.NewStyle().Bold(true),
		gutter:  r.NewStyle().Foreground(ColorGutter).Bold(true),
	}
}

func (s styles) forSeverity(sev Severity) lipgloss.Style {
	if st, ok := s.severity[sev]; ok {
		return st
	}
	return s.severity[Info]
}
