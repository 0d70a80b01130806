// Package backenddb wires the backend Postgres database: connection,
// embedded goose migrations, and the repositories that live on it.
package backenddb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dlebedev/checkride/internal/migrations/postgres"
	"github.com/dlebedev/checkride/internal/repositories/appointments"
	"github.com/dlebedev/checkride/internal/repositories/submissions"
)

type Manager struct {
	db           *sql.DB
	submissions  submissions.Repository
	appointments appointments.Linker
}

func (m *Manager) Conn() *sql.DB {
	return m.db
}

func (m *Manager) Submissions() submissions.Repository {
	return m.submissions
}

func (m *Manager) Appointments() appointments.Linker {
	return m.appointments
}

func (m *Manager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(postgres.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func NewManager(dsn string) (*Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &Manager{
		db:           db,
		submissions:  submissions.NewPostgresRepository(db),
		appointments: appointments.NewPostgresRepository(db),
	}, nil
}
