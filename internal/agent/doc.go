// Package agent implements the conversational loop. Each user turn is
// sent to the model with the registered tool declarations; requested
// function calls are dispatched and their results fed back until the
// model produces a plain-text reply. The in-memory history is bounded by
// a rolling window so long sessions do not grow without limit.
package agent
