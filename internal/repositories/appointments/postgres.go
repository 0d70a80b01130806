package appointments

import (
	"context"
	"fmt"

	"github.com/dlebedev/checkride/internal/common"
	"github.com/dlebedev/checkride/internal/dbx"
)

// PostgresRepository implements Linker over the backend database.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Link stamps the appointment with the submission id. Zero rows affected
// means the appointment does not exist and is reported as ErrNotFound.
func (r *PostgresRepository) Link(ctx context.Context, appointmentID, submissionID string) error {
	query := `UPDATE appointments SET submission_id = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, appointmentID, submissionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
