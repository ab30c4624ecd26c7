package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/dish/internal/util"
)

// Fallback dimensions used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// minPaneHeight is the smallest pane we draw: top border, one content
// line, bottom border.
const minPaneHeight = 3

// minInfoHeight keeps the information pane tall enough for its three
// content lines plus borders, so the stats never vanish on a 24-row
// terminal.
const minInfoHeight = 5

// renderDashboard renders the two-pane dashboard: a short information
// pane on top and the connection list below it.
func (m Model) renderDashboard() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	height := m.height
	if height == 0 {
		height = defaultHeight
	}

	// The information pane takes roughly a tenth of the terminal, the
	// connection list gets the rest.
	infoHeight := height / 10
	if infoHeight < minInfoHeight {
		infoHeight = minInfoHeight
	}
	connHeight := height - infoHeight
	if connHeight < minPaneHeight {
		connHeight = minPaneHeight
	}

	var b strings.Builder
	b.WriteString(m.renderInfoPane(width, infoHeight))
	b.WriteString("\n")
	b.WriteString(m.renderConnsPane(width, connHeight))
	return b.String()
}

// renderInfoPane renders the share summary: root directory, totals, and
// the quit hint, trimmed to however many lines fit.
func (m Model) renderInfoPane(width, height int) string {
	capacity := height - 2
	if capacity < 1 {
		capacity = 1
	}

	var served int64
	if m.info.Served != nil {
		served = m.info.Served()
	}

	stats := fmt.Sprintf("%s sent | up %s | %d %s",
		humanize.Bytes(uint64(served)),
		formatUptime(m.Uptime()),
		len(m.rows),
		util.Pluralize(len(m.rows), "connection", "connections"),
	)

	lines := []string{
		"Serving " + ValueStyle.Render(m.info.Root),
		StatStyle.Render(stats),
		HintStyle.Render("q quit"),
	}
	if len(lines) > capacity {
		lines = lines[:capacity]
	}

	return m.renderPane("Information", m.info.URL, lines, width, capacity)
}

// renderConnsPane renders two lines per peer: the request summary and an
// indented progress line. When more peers are connected than fit, whole
// entries are dropped and a count of the hidden remainder is shown.
func (m Model) renderConnsPane(width, height int) string {
	capacity := height - 2
	if capacity < 1 {
		capacity = 1
	}

	var lines []string
	switch {
	case len(m.rows) == 0:
		lines = []string{m.spinner.View() + " " + HintStyle.Render("waiting for connections...")}

	case len(m.rows)*2 > capacity:
		show := (capacity - 1) / 2
		for _, r := range m.rows[:show] {
			lines = append(lines, renderRow(r)...)
		}
		lines = append(lines, HintStyle.Render(fmt.Sprintf("+ %d more", len(m.rows)-show)))

	default:
		for _, r := range m.rows {
			lines = append(lines, renderRow(r)...)
		}
	}

	header := fmt.Sprintf("%d active", len(m.rows))
	return m.renderPane("Connections", header, lines, width, capacity)
}

// renderPane assembles a bordered section, padding content to exactly
// capacity lines so the panes below it never shift.
func (m Model) renderPane(title, value string, lines []string, width, capacity int) string {
	out := make([]string, 0, capacity+2)
	out = append(out, SectionHeader(title, value, width))
	for _, line := range lines {
		out = append(out, SectionContentLine(line, width))
	}
	for i := len(lines); i < capacity; i++ {
		out = append(out, SectionContentLine("", width))
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}

// renderRow formats one peer as its two display lines.
func renderRow(r Row) []string {
	summary := AddrStyle.Render(r.Addr) + " " + PathStyle.Render(r.Path) +
		fmt.Sprintf(" => %d/%d", r.BytesSent, r.BytesRequested)

	stat := fmt.Sprintf(">> (%d%% %s)", r.Percent, formatMiB(r.Speed))
	style := StatStyle
	if r.Percent >= 100 {
		style = DoneStyle
	}

	return []string{summary, "    " + style.Render(stat)}
}

// formatMiB formats a bytes-per-second rate in binary megabytes.
func formatMiB(bytesPerSecond float64) string {
	return fmt.Sprintf("%.2f MiB/s", bytesPerSecond/(1024*1024))
}

// formatUptime formats a duration with second precision.
func formatUptime(d time.Duration) string {
	return d.Round(time.Second).String()
}
