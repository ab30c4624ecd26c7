package monitor

// speedSlots is the number of samples averaged into the displayed rate.
const speedSlots = 3

// speedWindow is a fixed ring of recent rate samples. The average always
// divides by the full slot count, so a connection's displayed speed ramps
// up over its first few samples instead of jumping straight to the
// instantaneous rate.
type speedWindow struct {
	samples [speedSlots]float64
	next    int
}

// push overwrites the oldest sample with v.
func (w *speedWindow) push(v float64) {
	w.samples[w.next] = v
	w.next = (w.next + 1) % speedSlots
}

// average returns the mean over all slots, empty slots included.
func (w *speedWindow) average() float64 {
	var sum float64
	for _, v := range w.samples {
		sum += v
	}
	return sum / speedSlots
}
