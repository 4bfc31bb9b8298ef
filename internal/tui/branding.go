package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/fred/internal/config"
)

const AppName = "fred"

// LogoLines is the block-letter logo shown by the banner and the empty view.
var LogoLines = []string{
	"▄▄▄▄▄ ▄▄▄▄   ▄▄▄▄▄ ▄▄▄▄ ",
	"██    ██  ██ ██    ██  ██",
	"████  ████▀  ████  ██  ██",
	"██    ██ ▀█▄ ██    ██  ██",
	"██    ██   █ █████ ████▀ ",
}

const CompactLogo = `fred ›`

var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
)

var (
	LogoStyle         lipgloss.Style
	HeaderStyle       lipgloss.Style
	StatusBarStyle    lipgloss.Style
	ItemStyle         lipgloss.Style
	ActiveItemStyle   lipgloss.Style
	SelectedItemStyle lipgloss.Style
	HelpStyle         lipgloss.Style
	TimeStyle         lipgloss.Style
	SeparatorStyle    lipgloss.Style
	SpinnerStyle      lipgloss.Style

	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyTheme replaces the palette with the configured colors. Empty
// entries keep the built-in color.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	ItemStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	ActiveItemStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		Bold(true)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	TimeStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Faint(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// ShowBanner prints the startup banner to w before the program takes over
// the terminal.
func ShowBanner(w io.Writer, version string) {
	lines := make([]string, len(LogoLines), len(LogoLines)+2)
	copy(lines, LogoLines)
	lines = append(lines, "")

	tagline := "terminal feed reader"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}
	lines = append(lines, tagline)

	palette := []lipgloss.Color{PrimaryColor, SecondaryColor, AccentColor}
	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(palette[i%len(palette)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	border := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	banner := lipgloss.NewStyle().
		Border(border).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	fmt.Fprintln(w, lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(banner))
}
