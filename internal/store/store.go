// Package store records analysis runs and the vendor classifications they
// produced. The history is an audit log; nothing reads it back into a
// classification pass.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-spend/internal/model"
)

// ErrNotFound is the root of every lookup miss.
var ErrNotFound = eris.New("not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Input  string          `json:"input,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// defaultListLimit caps ListRuns when the filter sets no limit.
const defaultListLimit = 100

func (f RunFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store persists run history.
type Store interface {
	CreateRun(ctx context.Context, input model.RunInput) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	SaveVendors(ctx context.Context, runID string, vendors []model.RunVendor) (int64, error)
	ListVendors(ctx context.Context, runID string) ([]model.RunVendor, error)

	Migrate(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
