package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// SyncRunRepository implements port.SyncRunRepository. Runs are created once
// at job start, finalized once at job end, and never touched afterwards.
type SyncRunRepository struct {
	pool *pgxpool.Pool
}

// NewSyncRunRepository returns a new repository instance.
func NewSyncRunRepository(pool *pgxpool.Pool) *SyncRunRepository {
	return &SyncRunRepository{pool: pool}
}

// Create inserts the run record in its initial running state.
func (r *SyncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sync_runs
        (id, trigger_source, started_at, status, created, updated, skipped, errors, retry_count, warning)
        VALUES ($1,$2,$3,$4,0,0,0,0,0,'')`,
		run.ID, run.Trigger, run.StartedAt, run.Status)
	return err
}

// Finalize writes the run's terminal state and counters.
func (r *SyncRunRepository) Finalize(ctx context.Context, run *domain.SyncRun) error {
	tag, err := r.pool.Exec(ctx, `UPDATE sync_runs
        SET completed_at = $1, status = $2, created = $3, updated = $4,
            skipped = $5, errors = $6, retry_count = $7, warning = $8
        WHERE id = $9 AND completed_at IS NULL`,
		run.CompletedAt, run.Status, run.Created, run.Updated,
		run.Skipped, run.Errors, run.RetryCount, run.Warning, run.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

const syncRunColumns = `id, trigger_source, started_at, completed_at, status,
       created, updated, skipped, errors, retry_count, warning`

func scanSyncRun(row pgx.CollectableRow) (domain.SyncRun, error) {
	var run domain.SyncRun
	err := row.Scan(&run.ID, &run.Trigger, &run.StartedAt, &run.CompletedAt,
		&run.Status, &run.Created, &run.Updated, &run.Skipped,
		&run.Errors, &run.RetryCount, &run.Warning)
	return run, err
}

// Latest returns the most recently started run, or port.ErrNotFound.
func (r *SyncRunRepository) Latest(ctx context.Context) (*domain.SyncRun, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+syncRunColumns+`
        FROM sync_runs ORDER BY started_at DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	run, err := pgx.CollectOneRow(rows, scanSyncRun)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns recent runs, newest first.
func (r *SyncRunRepository) List(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `SELECT `+syncRunColumns+`
        FROM sync_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanSyncRun)
}
