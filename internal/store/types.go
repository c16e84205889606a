package store

import (
	"time"

	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

// Run is one completed update batch.
type Run struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	TargetCount int
	Results     []pkgmgr.UpdateResult
}
