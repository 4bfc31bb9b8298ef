package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

func renderSeparator(width int) string {
	if width < 1 {
		width = 1
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}

// listRow is one line of a rendered list.
type listRow struct {
	text   string
	meta   string
	active bool
}

// renderList draws rows into height lines, scrolling so the cursor stays
// visible. cursor is -1 when nothing is selected.
func renderList(rows []listRow, cursor, width, height int) string {
	if height < 1 {
		height = 1
	}

	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(rows) {
		end = len(rows)
	}

	lines := make([]string, 0, height)
	for i := start; i < end; i++ {
		row := rows[i]
		room := width - 4
		if row.meta != "" {
			room -= len([]rune(row.meta)) + 2
		}
		text := truncateEnd(row.text, room)

		var line string
		switch {
		case i == cursor:
			line = SelectedItemStyle.Render("› " + text)
		case row.active:
			line = ActiveItemStyle.Render("• " + text)
		default:
			line = ItemStyle.Render("  " + text)
		}
		if row.meta != "" {
			line += "  " + TimeStyle.Render(row.meta)
		}
		lines = append(lines, line)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
