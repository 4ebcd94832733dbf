package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

// ConflictDetector finds appointments of one vet that fall inside the
// exclusion zone around a proposed time.
type ConflictDetector struct {
	repo   repository.AppointmentRepository
	window time.Duration
}

func NewConflictDetector(repo repository.AppointmentRepository) *ConflictDetector {
	return &ConflictDetector{repo: repo, window: ConflictWindow}
}

// HasConflict reports whether vetID already has an appointment strictly
// within ConflictWindow of at. Appointments of every status count. excludeID
// skips one appointment, used when re-checking an existing one.
func (d *ConflictDetector) HasConflict(ctx context.Context, vetID int64, at time.Time, excludeID int64) (bool, error) {
	found, err := d.repo.ExistsInWindow(ctx, vetID, at.Add(-d.window), at.Add(d.window), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check vet schedule: %w", err)
	}
	return found, nil
}
