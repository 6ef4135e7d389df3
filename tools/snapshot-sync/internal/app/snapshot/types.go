package snapshot

import "encoding/json"

// Event is the Lambda payload. Empty fields fall back to configuration.
type Event struct {
	Mode   string `json:"mode"`   // export_snapshot | import_snapshot
	Table  string `json:"table"`  // player table; PLAYER_VALUES_TABLE_NAME
	Bucket string `json:"bucket"` // SNAPSHOT_BUCKET; empty skips S3
	Key    string `json:"key"`    // SNAPSHOT_KEY
	Path   string `json:"path"`   // local file; PLAYER_SNAPSHOT_PATH
	DryRun bool   `json:"dry_run"`
	// Parquet also writes a columnar copy next to each JSON export.
	Parquet bool `json:"parquet"`
}

// Raw keeps the Lambda edge decoupled from the event type.
type Raw = json.RawMessage

// Job is an Event with defaults applied.
type Job struct {
	Mode    string
	Table   string
	Bucket  string
	Key     string
	Path    string
	DryRun  bool
	Parquet bool
}
