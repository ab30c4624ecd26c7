package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
)

// HandleKeyMsg processes keyboard input and returns whether the key was
// handled along with any follow-up command.
//
// Quit does not stop the program directly. It posts a request on the
// control bus, which the next tick observes, so every shutdown path runs
// through the same code regardless of what triggered it. The request is
// latched: mashing q posts exactly once.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitAlt:
		if !m.quitRequested {
			m.quitRequested = true
			m.bus.RequestQuit()
		}
		return true, nil
	}

	return false, nil
}
