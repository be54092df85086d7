package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunInput describes the workbook an analysis run was started against.
type RunInput struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path,omitempty"`
	DryRun     bool   `json:"dry_run,omitempty"`
}

// RunSummary is the persisted outcome of a completed run.
type RunSummary struct {
	Stats            Stats   `json:"stats"`
	EstimatedSavings float64 `json:"estimated_savings"`
	RegistrySize     int     `json:"registry_size"`
}

// Run is one recorded invocation of the analysis pass.
type Run struct {
	ID        string      `json:"id"`
	Input     RunInput    `json:"input"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunVendor is one classified vendor row recorded against a run.
type RunVendor struct {
	Row            int            `json:"row"`
	Name           string         `json:"name"`
	Cost           *float64       `json:"cost,omitempty"`
	Department     Department     `json:"department"`
	Description    string         `json:"description"`
	Recommendation Recommendation `json:"recommendation"`
	Source         Source         `json:"source"`
	Rule           string         `json:"rule,omitempty"`
}
