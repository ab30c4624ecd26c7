package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette. Dark synthwave theme tuned for readability on
// black terminals.
const (
	ColorBorder        = lipgloss.Color("#2A2A4A") // dim purple frames
	ColorAccent        = lipgloss.Color("#FF2E97") // neon pink highlights
	ColorHealthy       = lipgloss.Color("#39FF14") // green for completed transfers
	ColorTextPrimary   = lipgloss.Color("#EEEEEE")
	ColorTextSecondary = lipgloss.Color("#AAAACC")
	ColorTextMuted     = lipgloss.Color("#666688")
)

// Styles for dashboard content.
var (
	// AddrStyle renders peer addresses.
	AddrStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	// PathStyle renders the requested file path.
	PathStyle = lipgloss.NewStyle().Foreground(ColorTextPrimary)

	// ValueStyle renders plain values in the information pane.
	ValueStyle = lipgloss.NewStyle().Foreground(ColorTextPrimary)

	// StatStyle renders progress and speed lines.
	StatStyle = lipgloss.NewStyle().Foreground(ColorTextSecondary)

	// DoneStyle renders stats for transfers that have reached 100%.
	DoneStyle = lipgloss.NewStyle().Foreground(ColorHealthy)

	// HintStyle renders keyboard hints and placeholder text.
	HintStyle = lipgloss.NewStyle().Foreground(ColorTextMuted)
)

// SectionHeader renders a section's top border with an inline title on the
// left and an optional value on the right:
//
//	╭─ Title ──────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// Measure visible widths with lipgloss so styled strings count their
	// display cells, not their bytes.
	// Left: "╭─ " (3 chars) + title + " " (1 char)
	leftWidth := 3 + lipgloss.Width(title) + 1

	// Right: " " (1 char) + value + " ╮" (2 chars)
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders a section's bottom border.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}

	middle := strings.Repeat("─", width-2)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + middle + "╯")
}

// SectionContentLine renders a content line between left and right
// borders, padded to width. Content wider than the inner area is
// truncated so long paths cannot break the frame.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	// Inner width is total width minus the borders and padding:
	// "│ " on the left and " │" on the right.
	innerWidth := width - 4

	if lipgloss.Width(content) > innerWidth {
		content = lipgloss.NewStyle().MaxWidth(innerWidth).Render(content)
	}

	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
