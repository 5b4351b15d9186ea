package monitor

import "time"

// Status is the last observed health of the backing stores.
type Status struct {
	PostgreSQL    bool      `json:"postgresql"`
	Redis         bool      `json:"redis"`
	Snapshots     bool      `json:"snapshots"`
	SnapshotCount int       `json:"snapshot_count"`
	LastCheck     time.Time `json:"last_check"`
}
