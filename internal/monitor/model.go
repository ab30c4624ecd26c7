package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunPhase tracks where the dashboard is in its lifecycle.
type RunPhase int

const (
	// PhaseRunning is the normal state: ticking, sampling, rendering.
	PhaseRunning RunPhase = iota
	// PhaseStopping is set when a quit request has been observed and the
	// program is tearing down. The view goes blank so no stale frame
	// lingers on the alternate screen.
	PhaseStopping
	// PhaseStopped is the terminal state after the program has exited.
	PhaseStopped
)

// String returns a human-readable phase name.
func (p RunPhase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// defaultInterval is the refresh cadence used when none is configured.
const defaultInterval = 100 * time.Millisecond

// spinnerFrames is the idle animation shown while no peer is connected.
var spinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// ServeInfo describes the share being served, shown in the information
// pane.
type ServeInfo struct {
	// Root is the directory being shared.
	Root string
	// URL is the advertised base URL peers should open.
	URL string
	// Served reports total bytes written to all peers so far. May be nil.
	Served func() int64
}

// Model is the Bubble Tea model for the transfer dashboard.
type Model struct {
	registry *Registry
	bus      *ControlBus
	info     ServeInfo
	interval time.Duration

	rows       []Row
	lastUpdate time.Time
	startTime  time.Time

	width  int
	height int

	spinner       spinner.Model
	phase         RunPhase
	quitRequested bool
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// NewModel creates a dashboard model reading from the given registry and
// bus. interval is the refresh cadence; zero or negative falls back to the
// default.
func NewModel(registry *Registry, bus *ControlBus, info ServeInfo, interval time.Duration) Model {
	if interval <= 0 {
		interval = defaultInterval
	}

	sp := spinner.New()
	sp.Spinner = spinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{
		registry:  registry,
		bus:       bus,
		info:      info,
		interval:  interval,
		startTime: time.Now(),
		spinner:   sp,
		phase:     PhaseRunning,
	}
}

// Init starts the refresh timer and the idle spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m.tick(time.Time(msg))
	}

	return m, nil
}

// tick runs one refresh cycle: drain the control bus first so a quit
// request is honored within a single interval, then sample the registry.
func (m Model) tick(now time.Time) (tea.Model, tea.Cmd) {
	if _, ok := m.bus.Poll(); ok {
		m.phase = PhaseStopping
		return m, tea.Quit
	}

	if rows, fresh := m.registry.Sample(now); fresh {
		m.rows = rows
		m.lastUpdate = now
	}

	return m, m.tickCmd()
}

// View renders the dashboard, or nothing once shutdown has begun.
func (m Model) View() string {
	if m.phase != PhaseRunning {
		return ""
	}
	return m.renderDashboard()
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Phase returns the model's lifecycle phase.
func (m Model) Phase() RunPhase {
	return m.phase
}

// ActiveConns returns the number of peers in the last sampled snapshot.
func (m Model) ActiveConns() int {
	return len(m.rows)
}

// Uptime returns how long the dashboard has been running.
func (m Model) Uptime() time.Duration {
	return time.Since(m.startTime)
}
