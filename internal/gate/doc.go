// Package gate serializes translation requests triggered by text selection.
// A Debouncer waits for the selection to settle and a Gate keeps at most one
// request in flight, turning stuck calls into timeouts.
package gate
