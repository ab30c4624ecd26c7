package monitor

// Row is one peer's transfer state, frozen at sample time for rendering.
// Rows are plain values so the view never touches live registry records.
type Row struct {
	// Addr is the peer address in host:port form, IPv6 hosts bracketed.
	Addr string
	// Path is the request path being served, or a placeholder until the
	// first request line has been read off the socket.
	Path string
	// BytesSent is the number of bytes written to the peer so far.
	BytesSent int64
	// BytesRequested is the size of the response body the peer asked for.
	BytesRequested int64
	// Percent is transfer progress from 0 to 100.
	Percent int
	// Speed is the smoothed transfer rate in bytes per second.
	Speed float64
}
