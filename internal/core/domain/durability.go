package domain

import "time"

// DurabilityState reports whether the store's write-ahead durability mode is
// active. Verified once at storage startup, read-only afterwards.
type DurabilityState struct {
	WriteAheadEnabled  bool          `json:"write_ahead_enabled"`
	CheckpointInterval time.Duration `json:"checkpoint_interval"`
}
