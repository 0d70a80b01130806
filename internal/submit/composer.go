// Package submit orchestrates the submission pipeline: materialize assets,
// derive aggregates, persist the submission remotely, link it back to its
// originating appointment, and retire the local draft.
package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dlebedev/checkride/internal/assetcache"
	"github.com/dlebedev/checkride/internal/common"
	"github.com/dlebedev/checkride/internal/draft"
	"github.com/dlebedev/checkride/internal/logging"
	"github.com/dlebedev/checkride/internal/models"
	"github.com/dlebedev/checkride/internal/record"
	"github.com/dlebedev/checkride/internal/repositories/appointments"
	"github.com/dlebedev/checkride/internal/repositories/submissions"
)

// Materializer is the slice of the asset pipeline the composer drives.
type Materializer interface {
	Materialize(ctx context.Context, rec record.Record, containerID string) (record.Record, error)
}

// Composer runs the submission pipeline. Steps up to and including the
// remote create are atomic from the caller's perspective: any failure aborts
// the attempt, the local draft stays untouched, and a retryable error
// surfaces. Everything after the create is best-effort cleanup.
type Composer struct {
	materializer Materializer
	submissions  submissions.Repository
	appointments appointments.Linker
	drafts       *draft.Store
	cache        *assetcache.Cache
	logger       logging.Logger
	newID        func() string
	now          func() time.Time
}

func NewComposer(
	materializer Materializer,
	subs submissions.Repository,
	linker appointments.Linker,
	drafts *draft.Store,
	cache *assetcache.Cache,
	logger logging.Logger,
) *Composer {
	return &Composer{
		materializer: materializer,
		submissions:  subs,
		appointments: linker,
		drafts:       drafts,
		cache:        cache,
		logger:       logger,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// ContainerID returns the owner-scoped object storage container for one
// submission attempt.
func ContainerID(ownerID, submissionID string) string {
	return "owners/" + ownerID + "/submissions/" + submissionID
}

// Submit runs the pipeline for the owner's current record. appointmentID may
// be empty when the session did not originate from a scheduled appointment.
//
// Pipeline: allocate id -> materialize assets -> derive aggregates ->
// assemble -> create remotely -> link appointment (best effort) -> clear
// draft and cached assets (best effort).
func (c *Composer) Submit(ctx context.Context, ownerID, appointmentID string, rec record.Record) (*models.Submission, error) {
	id := c.newID()
	log := c.logger.With("owner", ownerID, "submission", id)

	materialized, err := c.materializer.Materialize(ctx, rec, ContainerID(ownerID, id))
	if err != nil {
		log.Error(ctx, "asset materialization failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	sub := &models.Submission{
		ID:            id,
		OwnerID:       ownerID,
		AppointmentID: appointmentID,
		Record:        materialized,
		Battery:       SummarizeBattery(materialized),
		Checklist:     SummarizeChecklists(materialized),
		Status:        models.StatusSubmitted,
		CreatedAt:     c.now().UTC(),
	}

	if err := c.submissions.Create(ctx, sub); err != nil {
		log.Error(ctx, "submission persist failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrPersistFailed, err)
	}

	// The submission is durable from here on. Linkage and cleanup failures
	// are logged, never propagated.
	if appointmentID != "" {
		if err := c.appointments.Link(ctx, appointmentID, id); err != nil {
			log.Warn(ctx, "appointment link failed", "appointment", appointmentID, "error", err)
		}
	}

	if err := c.drafts.Clear(ctx, ownerID); err != nil {
		log.Warn(ctx, "draft clear after submit failed", "error", err)
	}
	if err := c.cache.ClearAll(ownerID); err != nil {
		log.Warn(ctx, "asset cache clear after submit failed", "error", err)
	}

	log.Info(ctx, "submission complete")
	return sub, nil
}
