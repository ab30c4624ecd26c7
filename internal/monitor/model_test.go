package monitor

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dish/internal/server"
)

func newTestModel() Model {
	return NewModel(NewRegistry(), NewControlBus(), ServeInfo{
		Root:   "/srv/share",
		URL:    "http://192.0.2.1:8080",
		Served: func() int64 { return 4096 },
	}, 50*time.Millisecond)
}

func TestNewModel(t *testing.T) {
	m := newTestModel()

	assert.NotNil(t, m.registry)
	assert.NotNil(t, m.bus)
	assert.Equal(t, 50*time.Millisecond, m.interval)
	assert.Equal(t, PhaseRunning, m.phase)
	assert.False(t, m.quitRequested)
	assert.NotEmpty(t, m.spinner.Spinner.Frames)
}

func TestNewModel_DefaultInterval(t *testing.T) {
	m := NewModel(NewRegistry(), NewControlBus(), ServeInfo{}, 0)

	assert.Equal(t, defaultInterval, m.interval)
}

func TestRunPhase_String(t *testing.T) {
	tests := []struct {
		phase  RunPhase
		expect string
	}{
		{PhaseRunning, "running"},
		{PhaseStopping, "stopping"},
		{PhaseStopped, "stopped"},
		{RunPhase(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.phase.String())
		})
	}
}

func TestModel_Init(t *testing.T) {
	m := newTestModel()

	assert.NotNil(t, m.Init())
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	mm := updated.(Model)

	assert.Equal(t, 120, mm.width)
	assert.Equal(t, 40, mm.height)
}

func TestModel_Update_TickSamplesRegistry(t *testing.T) {
	m := newTestModel()
	m.registry.Offer([]server.ConnView{view("192.0.2.1:5000", 100, 200, "/a")})

	updated, cmd := m.Update(tickMsg(time.Now()))
	mm := updated.(Model)

	require.Len(t, mm.rows, 1)
	assert.Equal(t, "192.0.2.1:5000", mm.rows[0].Addr)
	assert.Equal(t, PhaseRunning, mm.phase)

	// The loop keeps ticking.
	assert.NotNil(t, cmd)
}

func TestModel_Update_TickKeepsRowsWithoutFreshSnapshot(t *testing.T) {
	m := newTestModel()
	m.registry.Offer([]server.ConnView{view("192.0.2.1:5000", 100, 200, "/a")})

	updated, _ := m.Update(tickMsg(time.Now()))
	mm := updated.(Model)
	require.Len(t, mm.rows, 1)

	// No new snapshot between ticks: the previous rows stay up instead
	// of flickering to an empty table.
	updated, _ = mm.Update(tickMsg(time.Now()))
	mm = updated.(Model)
	assert.Len(t, mm.rows, 1)
}

func TestModel_Update_QuitObservedWithinOneTick(t *testing.T) {
	m := newTestModel()

	// The key handler only posts the request.
	updated, cmd := m.Update(keyPress(KeyQuit))
	mm := updated.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, PhaseRunning, mm.phase)

	// The next tick drains the bus before sampling and shuts down.
	updated, cmd = mm.Update(tickMsg(time.Now()))
	mm = updated.(Model)

	assert.Equal(t, PhaseStopping, mm.phase)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Update_SignalQuitViaBus(t *testing.T) {
	m := newTestModel()

	// Any producer can request shutdown, not just the keyboard.
	m.bus.RequestQuit()

	updated, cmd := m.Update(tickMsg(time.Now()))
	mm := updated.(Model)

	assert.Equal(t, PhaseStopping, mm.phase)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Update_SpinnerTick(t *testing.T) {
	m := newTestModel()

	_, cmd := m.Update(spinner.TickMsg{})

	// The spinner schedules its next frame.
	assert.NotNil(t, cmd)
}

func TestModel_View_WhileStopping(t *testing.T) {
	m := newTestModel()

	m.phase = PhaseStopping
	assert.Equal(t, "", m.View())

	m.phase = PhaseStopped
	assert.Equal(t, "", m.View())
}

func TestModel_Accessors(t *testing.T) {
	m := newTestModel()
	m.rows = []Row{{Addr: "192.0.2.1:5000"}, {Addr: "192.0.2.2:5000"}}

	assert.Equal(t, 2, m.ActiveConns())
	assert.Equal(t, PhaseRunning, m.Phase())
	assert.GreaterOrEqual(t, m.Uptime(), time.Duration(0))
}
