package run

// Status is the snapshot the status API serves.
type Status struct {
	LastRunAt   string `json:"last_run_at"`
	LastOkAt    string `json:"last_ok_at"`
	LastError   string `json:"last_error"`
	LastApplied int    `json:"last_applied"`
	Running     bool   `json:"running"`
}
