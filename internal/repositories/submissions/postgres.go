package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dlebedev/checkride/internal/common"
	"github.com/dlebedev/checkride/internal/dbx"
	"github.com/dlebedev/checkride/internal/models"
	"github.com/dlebedev/checkride/internal/record"
)

// PostgresRepository implements submission storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts one submission row. The record and aggregates are stored as
// jsonb. Exactly one row must be affected.
func (r *PostgresRepository) Create(ctx context.Context, sub *models.Submission) error {
	recordJSON, err := json.Marshal(sub.Record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	batteryJSON, err := json.Marshal(sub.Battery)
	if err != nil {
		return fmt.Errorf("marshal battery summary: %w", err)
	}
	checklistJSON, err := json.Marshal(sub.Checklist)
	if err != nil {
		return fmt.Errorf("marshal checklist summary: %w", err)
	}

	query := `
		INSERT INTO submissions (id, owner_id, appointment_id, record, battery, checklist, status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
	`
	res, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.OwnerID, sub.AppointmentID, recordJSON, batteryJSON, checklistJSON, sub.Status, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// GetByID returns a single submission or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `
		SELECT id, owner_id, COALESCE(appointment_id, ''), record, battery, checklist, status, created_at
		FROM submissions WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var (
		sub           models.Submission
		recordJSON    []byte
		batteryJSON   []byte
		checklistJSON []byte
	)
	err := row.Scan(&sub.ID, &sub.OwnerID, &sub.AppointmentID,
		&recordJSON, &batteryJSON, &checklistJSON, &sub.Status, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	var rec record.Record
	if err := json.Unmarshal(recordJSON, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	sub.Record = rec
	if err := json.Unmarshal(batteryJSON, &sub.Battery); err != nil {
		return nil, fmt.Errorf("unmarshal battery summary: %w", err)
	}
	if err := json.Unmarshal(checklistJSON, &sub.Checklist); err != nil {
		return nil, fmt.Errorf("unmarshal checklist summary: %w", err)
	}

	return &sub, nil
}
