// Package monitor implements the live transfer dashboard for dish.
//
// The dashboard is a full-screen Bubble Tea program that shows every peer
// currently downloading from the share: its address, the file it asked for,
// bytes delivered versus bytes requested, and a smoothed transfer rate.
//
// # Architecture
//
// Three pieces cooperate, each owned by a different goroutine:
//
//   - Registry: the shared bookkeeping table. The HTTP server pushes
//     connection snapshots into it via Offer, and the render loop reads
//     display rows out of it via Sample. A single atomic flag hands the
//     table back and forth so the two sides never reconcile and render
//     the same cycle twice.
//
//   - ControlBus: a one-slot channel that carries shutdown requests from
//     whoever notices first (keyboard, context cancellation, or the server
//     dying) to the render loop. Posting never blocks and surplus requests
//     are dropped, so any number of producers can fire at once.
//
//   - Model: the Bubble Tea model. On every tick it drains the bus, then
//     samples the registry, then re-arms the next tick. A quit request is
//     therefore observed within one refresh interval.
//
// # Update flow
//
// The server counts bytes on the wire and periodically publishes a snapshot
// of all open connections. Offer reconciles that snapshot into the registry:
// new peers get a record, departed peers are swept, and surviving records
// keep their speed history across reconciles. Sample turns records into
// immutable Row values sorted by peer address, feeding each record the
// sample timestamp so its speed estimate advances.
//
// # Rendering
//
// The view is two bordered panes: a short information pane (share root,
// URL, totals) and a connections pane listing two lines per peer. Pane
// frames are drawn with the section helpers in styles.go and clipped to
// the terminal size reported by Bubble Tea.
//
// # Lifecycle
//
// Run wires everything together: it starts the server in the background,
// runs the TUI in the foreground, and cancels the server context once the
// TUI exits. On a terminal that is not a TTY the dashboard is skipped and
// the server runs headless until the context is canceled.
package monitor
