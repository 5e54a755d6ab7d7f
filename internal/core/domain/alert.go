package domain

import "time"

// AlertRecord marks an unresolved critical failure. Its presence on disk is
// the signal to external monitoring; it is cleared on the next success of the
// same operation.
type AlertRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Error     string    `json:"error"`
}
