package types

// RunSummary counts per-posting outcomes of one requirement pass.
type RunSummary struct {
	RunID          string `json:"runId"`
	Total          int    `json:"total"`
	Skipped        int    `json:"skipped"`
	Persisted      int    `json:"persisted"`
	PersistFailed  int    `json:"persistFailed"`
	NoFile         int    `json:"noFile"`
	DownloadFailed int    `json:"downloadFailed"`
	ExtractFailed  int    `json:"extractFailed"`
	CheckFailed    int    `json:"checkFailed"`
}
