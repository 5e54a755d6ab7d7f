package domain

import "time"

// Reading is a single sensor measurement. DeviceID plus RecordedAt is the
// natural key: delivering the same reading twice must store exactly one row.
type Reading struct {
	DeviceID    string    `json:"device_id"   db:"device_id"`
	RecordedAt  time.Time `json:"recorded_at" db:"recorded_at"`
	Temperature float64   `json:"temperature" db:"temperature"`
	Humidity    *float64  `json:"humidity,omitempty" db:"humidity"`
	Battery     *float64  `json:"battery,omitempty"  db:"battery"`
}

// Key returns the natural key of the reading.
func (r *Reading) Key() string {
	return r.DeviceID + "@" + r.RecordedAt.UTC().Format(time.RFC3339Nano)
}
