package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// syncMaxRetries bounds the import retries within one run. Exhausting them
// leaves the run terminally failed until the next trigger.
const syncMaxRetries = 3

// SyncRunner pulls the authoritative catalog into the primary store. Runs
// are serialized globally with a TryLock because a full sync touches the
// whole catalog; a trigger arriving during an active run is rejected with
// ErrSyncActive rather than queued. Each run is a durable SyncRun record.
type SyncRunner struct {
	authoring port.AuthoringClient
	bundles   port.BundleRepository
	products  port.ProductRepository
	runs      port.SyncRunRepository
	logger    *slog.Logger

	notableThreshold int

	mu sync.Mutex

	// newBackOff builds the per-run retry policy; swapped in tests.
	newBackOff func() backoff.BackOff
}

// NewSyncRunner builds the sync job runner.
func NewSyncRunner(
	authoring port.AuthoringClient,
	bundles port.BundleRepository,
	products port.ProductRepository,
	runs port.SyncRunRepository,
	logger *slog.Logger,
	notableThreshold int,
) *SyncRunner {
	if notableThreshold <= 0 {
		notableThreshold = 10
	}
	return &SyncRunner{
		authoring:        authoring,
		bundles:          bundles,
		products:         products,
		runs:             runs,
		logger:           logger,
		notableThreshold: notableThreshold,
		newBackOff:       defaultSyncBackOff,
	}
}

// defaultSyncBackOff retries at exactly 1s, 2s and 4s: no jitter, so the
// retry bound is deterministic.
func defaultSyncBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = 4 * time.Second
	bo.MaxElapsedTime = 0
	return backoff.WithMaxRetries(bo, syncMaxRetries)
}

// Run executes one sync. The returned SyncRun is the durable record, also
// returned on failure so callers can inspect counters and retry count.
func (s *SyncRunner) Run(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncRun, error) {
	if !s.mu.TryLock() {
		return nil, port.ErrSyncActive
	}
	defer s.mu.Unlock()

	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
		Status:    domain.SyncRunning,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("record sync run: %w", err)
	}

	runErr := s.execute(ctx, run)

	now := time.Now().UTC()
	run.CompletedAt = &now
	if err := s.runs.Finalize(ctx, run); err != nil {
		s.logger.Error("failed to finalize sync run",
			slog.String("run_id", run.ID), slog.Any("error", err))
	}
	return run, runErr
}

// execute drives the run through HealthChecking and Importing and settles
// its terminal status.
func (s *SyncRunner) execute(ctx context.Context, run *domain.SyncRun) error {
	// HealthChecking. Authoring down means there is nothing to import
	// from: abort immediately, bypassing retry.
	if err := s.authoring.Ping(ctx); err != nil {
		run.Status = domain.SyncAborted
		run.Warning = "authoring store unreachable"
		s.logger.Error("sync aborted", slog.String("run_id", run.ID), slog.Any("error", err))
		return fmt.Errorf("%w: %v", port.ErrAuthoringUnreachable, err)
	}
	if err := s.bundles.Ping(ctx); err != nil {
		run.Warning = "primary store degraded during sync"
		s.logger.Warn("primary store unhealthy, proceeding in degraded mode",
			slog.String("run_id", run.ID), slog.Any("error", err))
	}

	// Importing, with bounded exponential retry. Counters are overwritten
	// on every attempt so a successful retry does not double-count.
	op := func() error {
		counts, err := s.importAll(ctx)
		run.Created = counts.created
		run.Updated = counts.updated
		run.Skipped = counts.skipped
		run.Errors = counts.errored
		return err
	}
	notify := func(err error, delay time.Duration) {
		run.RetryCount++
		s.logger.Warn("sync import failed, retrying",
			slog.String("run_id", run.ID),
			slog.Int("retry", run.RetryCount),
			slog.Duration("delay", delay),
			slog.Any("error", err))
	}
	if err := backoff.RetryNotify(op, s.newBackOff(), notify); err != nil {
		run.Status = domain.SyncFailed
		run.Warning = err.Error()
		return err
	}

	if run.Errors > 0 {
		run.Status = domain.SyncPartial
	} else {
		run.Status = domain.SyncSuccess
	}
	// Advisory only; never blocks completion.
	if run.Changed() > s.notableThreshold {
		s.logger.Info("notable catalog change",
			slog.String("run_id", run.ID),
			slog.Int("created", run.Created),
			slog.Int("updated", run.Updated))
	}
	return nil
}

type importCounts struct {
	created, updated, skipped, errored int
}

// importAll pulls products, categories and bundles from the authoring store
// and upserts them into the primary store. A failed pull is returned (and
// retried); a failed item upsert only increments the error counter so one
// bad record never aborts the batch.
func (s *SyncRunner) importAll(ctx context.Context) (importCounts, error) {
	var c importCounts

	products, err := s.authoring.ListProducts(ctx)
	if err != nil {
		return c, fmt.Errorf("pull products: %w", err)
	}
	for _, p := range products {
		if p.ID == "" {
			c.skipped++
			continue
		}
		created, err := s.products.UpsertProduct(ctx, p)
		if err != nil {
			c.errored++
			s.logger.Error("product upsert failed", slog.String("product_id", p.ID), slog.Any("error", err))
			continue
		}
		c.count(created)
	}

	categories, err := s.authoring.ListCategories(ctx)
	if err != nil {
		return c, fmt.Errorf("pull categories: %w", err)
	}
	for _, cat := range categories {
		if cat.ID == "" {
			c.skipped++
			continue
		}
		created, err := s.products.UpsertCategory(ctx, cat)
		if err != nil {
			c.errored++
			s.logger.Error("category upsert failed", slog.String("category_id", cat.ID), slog.Any("error", err))
			continue
		}
		c.count(created)
	}

	bundles, err := s.authoring.ListBundles(ctx)
	if err != nil {
		return c, fmt.Errorf("pull bundles: %w", err)
	}
	for i := range bundles {
		b := &bundles[i]
		if b.ID == "" {
			c.skipped++
			continue
		}
		created, err := s.bundles.UpsertBundle(ctx, b)
		if err != nil {
			c.errored++
			s.logger.Error("bundle upsert failed", slog.String("bundle_id", b.ID), slog.Any("error", err))
			continue
		}
		c.count(created)
	}
	return c, nil
}

func (c *importCounts) count(created bool) {
	if created {
		c.created++
	} else {
		c.updated++
	}
}

// Status returns the most recent run.
func (s *SyncRunner) Status(ctx context.Context) (*domain.SyncRun, error) {
	return s.runs.Latest(ctx)
}

// History lists recent runs, newest first.
func (s *SyncRunner) History(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	return s.runs.List(ctx, limit)
}

// Schedule starts the fixed-interval trigger loop. The interval is
// independent of the retry backoff, which only operates within a single
// run's failure handling. The loop stops when ctx is cancelled.
func (s *SyncRunner) Schedule(ctx context.Context, interval time.Duration, runOnStartup bool) {
	go func() {
		if runOnStartup {
			s.runTriggered(ctx, domain.TriggerStartup)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runTriggered(ctx, domain.TriggerScheduled)
			}
		}
	}()
}

func (s *SyncRunner) runTriggered(ctx context.Context, trigger domain.SyncTrigger) {
	run, err := s.Run(ctx, trigger)
	switch {
	case errors.Is(err, port.ErrSyncActive):
		s.logger.Info("sync already running, skipping trigger", slog.String("trigger", string(trigger)))
	case err != nil:
		s.logger.Error("sync run failed", slog.String("trigger", string(trigger)), slog.Any("error", err))
	default:
		s.logger.Info("sync run finished",
			slog.String("run_id", run.ID),
			slog.String("status", string(run.Status)),
			slog.Int("created", run.Created),
			slog.Int("updated", run.Updated),
			slog.Int("errors", run.Errors))
	}
}
