// Package server implements dish's HTTP file server with per-connection
// transfer accounting.
//
// Every accepted TCP connection is wrapped in a TrackedConn that counts
// bytes as they hit the socket, so progress reflects what was actually
// delivered rather than what was queued. The HTTP handler annotates the
// wrapper with the request path and the response size, and a Tracker
// keeps the live connection table.
//
// Run drives three loops under one errgroup: the HTTP serve loop, a
// snapshot notifier that periodically publishes the connection table to
// an observer callback, and a shutdown watcher that drains the server
// when the context is canceled. The notifier fires even when the table
// is empty so observers can sweep out departed peers.
package server
