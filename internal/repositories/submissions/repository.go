// Package submissions provides the PostgreSQL-backed repository the
// composer hands finished submissions to. It is the concrete form of the
// "remote document store" capability.
package submissions

import (
	"context"

	"github.com/dlebedev/checkride/internal/models"
)

// Repository persists submissions. Create must insert exactly one row; a
// duplicate submission id is an error, never an overwrite, so a retried
// attempt can only ever produce one document.
type Repository interface {
	Create(ctx context.Context, sub *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
}
