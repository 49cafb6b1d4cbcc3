package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const distributionSchema = `
	CREATE TABLE IF NOT EXISTS distribution_status (
		distribution_id TEXT PRIMARY KEY,
		service_name    TEXT NOT NULL DEFAULT '',
		state           TEXT NOT NULL,
		message         TEXT NOT NULL DEFAULT '',
		model_count     INTEGER NOT NULL DEFAULT 0,
		catalog_count   INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)
`

type distributionRepo struct {
	db DB
}

// NewDistributionRepository creates a new DistributionRepository
func NewDistributionRepository(db DB) output.DistributionRepository {
	return &distributionRepo{db: db}
}

// EnsureSchema creates the distribution_status table if it is missing.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, distributionSchema); err != nil {
		return fmt.Errorf("create distribution_status table: %w", err)
	}
	return nil
}

func (r *distributionRepo) Save(ctx context.Context, s *domain.DistributionStatus) error {
	query := `
		INSERT INTO distribution_status
			(distribution_id, service_name, state, message, model_count, catalog_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (distribution_id) DO UPDATE SET
			service_name = EXCLUDED.service_name,
			state = EXCLUDED.state,
			message = EXCLUDED.message,
			model_count = EXCLUDED.model_count,
			catalog_count = EXCLUDED.catalog_count,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		s.DistributionID, s.ServiceName, string(s.State), s.Message,
		s.ModelCount, s.CatalogCount, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save distribution status: %w", err)
	}
	return nil
}

func (r *distributionRepo) Get(ctx context.Context, distributionID string) (*domain.DistributionStatus, error) {
	query := `
		SELECT distribution_id, service_name, state, message, model_count, catalog_count, created_at, updated_at
		FROM distribution_status
		WHERE distribution_id = $1
	`

	var s domain.DistributionStatus
	var state string
	err := r.db.QueryRow(ctx, query, distributionID).Scan(
		&s.DistributionID, &s.ServiceName, &state, &s.Message,
		&s.ModelCount, &s.CatalogCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDistributionNotFound
		}
		return nil, fmt.Errorf("get distribution status: %w", err)
	}
	s.State = domain.DistributionState(state)
	return &s, nil
}
