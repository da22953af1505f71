package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// zeroDelayRetries keeps the retry count of the real policy without its
// sleeps.
func zeroDelayRetries() backoff.BackOff {
	return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, syncMaxRetries)
}

func newTestRunner(auth *fakeAuthoring, store *memStore, runs *fakeSyncRuns) *SyncRunner {
	r := NewSyncRunner(auth, store, store, runs, testLogger(), 10)
	r.newBackOff = zeroDelayRetries
	return r
}

func TestDefaultBackoffDelays(t *testing.T) {
	bo := defaultSyncBackOff()
	bo.Reset()
	require.Equal(t, time.Second, bo.NextBackOff())
	require.Equal(t, 2*time.Second, bo.NextBackOff())
	require.Equal(t, 4*time.Second, bo.NextBackOff())
	require.Equal(t, backoff.Stop, bo.NextBackOff())
}

func TestSyncImportsCatalog(t *testing.T) {
	store := newMemStore()
	store.addProduct(domain.Product{ID: "existing", Name: "old name", BasePrice: 1, IsActive: true})

	auth := newFakeAuthoring()
	auth.products = []domain.Product{
		{ID: "existing", Name: "new name", BasePrice: 2, IsActive: true},
		{ID: "brand-new", Name: "fresh", BasePrice: 3, IsActive: true},
	}
	auth.categories = []domain.Category{{ID: "signage", Name: "Signs"}}
	auth.fakeProvider.bundles = []domain.CampaignBundle{
		{ID: "b1", Name: "Bundle", IsActive: true,
			Products: []domain.BundleProduct{{BundleID: "b1", ProductID: "brand-new", Quantity: 2}}},
	}
	runs := &fakeSyncRuns{}

	run, err := newTestRunner(auth, store, runs).Run(context.Background(), domain.TriggerManual)
	require.NoError(t, err)

	require.Equal(t, domain.SyncSuccess, run.Status)
	require.Equal(t, domain.TriggerManual, run.Trigger)
	require.Equal(t, 3, run.Created) // brand-new product, category, bundle
	require.Equal(t, 1, run.Updated) // existing product
	require.Zero(t, run.Errors)
	require.Zero(t, run.RetryCount)
	require.NotNil(t, run.CompletedAt)

	// Imported data landed in the primary store.
	require.Equal(t, "new name", store.products["existing"].Name)
	require.Contains(t, store.bundles, "b1")

	// Durable record was created and finalized.
	latest, err := runs.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, run.ID, latest.ID)
	require.Equal(t, domain.SyncSuccess, latest.Status)
}

func TestSyncAbortsWhenAuthoringDown(t *testing.T) {
	auth := newFakeAuthoring()
	auth.pingErr = errors.New("dial tcp: connection refused")
	runs := &fakeSyncRuns{}

	run, err := newTestRunner(auth, newMemStore(), runs).Run(context.Background(), domain.TriggerScheduled)
	require.ErrorIs(t, err, port.ErrAuthoringUnreachable)

	require.Equal(t, domain.SyncAborted, run.Status)
	require.Zero(t, run.RetryCount, "abort must bypass retry")
	require.Zero(t, auth.productCalls, "nothing must be pulled after a failed health check")
}

func TestSyncProceedsDegradedWhenPrimarySlow(t *testing.T) {
	store := newMemStore()
	store.pingErr = errors.New("timeout")
	auth := newFakeAuthoring()
	auth.products = []domain.Product{{ID: "p1", IsActive: true}}

	run, err := newTestRunner(auth, store, &fakeSyncRuns{}).Run(context.Background(), domain.TriggerManual)
	require.NoError(t, err)
	require.Equal(t, domain.SyncSuccess, run.Status)
	require.NotEmpty(t, run.Warning)
	require.Equal(t, 1, run.Created)
}

func TestSyncRetryBound(t *testing.T) {
	auth := newFakeAuthoring()
	auth.listProductErr = errors.New("pull failed")
	runs := &fakeSyncRuns{}

	run, err := newTestRunner(auth, newMemStore(), runs).Run(context.Background(), domain.TriggerManual)
	require.Error(t, err)

	require.Equal(t, domain.SyncFailed, run.Status)
	require.Equal(t, syncMaxRetries, run.RetryCount)
	// One initial attempt plus exactly three retries, then terminal.
	require.Equal(t, syncMaxRetries+1, auth.productCalls)

	latest, err := runs.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.SyncFailed, latest.Status)
	require.Equal(t, syncMaxRetries, latest.RetryCount)
}

func TestSyncSkipsMalformedEntities(t *testing.T) {
	store := newMemStore()
	auth := newFakeAuthoring()
	auth.products = []domain.Product{
		{ID: "", Name: "no id"}, // skipped
		{ID: "good", IsActive: true},
	}
	auth.fakeProvider.bundles = []domain.CampaignBundle{{ID: "", Name: "no id"}}

	run, err := newTestRunner(auth, store, &fakeSyncRuns{}).Run(context.Background(), domain.TriggerWebhook)
	require.NoError(t, err)
	require.Equal(t, domain.SyncSuccess, run.Status)
	require.Equal(t, 2, run.Skipped)
	require.Equal(t, 1, run.Created)
}

func TestSyncGlobalSerialization(t *testing.T) {
	auth := newFakeAuthoring()
	auth.pingStarted = make(chan struct{})
	auth.pingRelease = make(chan struct{})
	runner := newTestRunner(auth, newMemStore(), &fakeSyncRuns{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = runner.Run(context.Background(), domain.TriggerScheduled)
	}()

	// Wait until the first run holds the lock inside its health check.
	<-auth.pingStarted

	_, err := runner.Run(context.Background(), domain.TriggerManual)
	require.ErrorIs(t, err, port.ErrSyncActive)

	close(auth.pingRelease)
	<-done

	// Lock released: the next trigger goes through.
	auth.pingStarted = nil
	auth.pingRelease = nil
	_, err = runner.Run(context.Background(), domain.TriggerManual)
	require.NoError(t, err)
}

func TestSyncStatusAndHistory(t *testing.T) {
	auth := newFakeAuthoring()
	runs := &fakeSyncRuns{}
	runner := newTestRunner(auth, newMemStore(), runs)

	_, err := runner.Status(context.Background())
	require.ErrorIs(t, err, port.ErrNotFound)

	_, err = runner.Run(context.Background(), domain.TriggerManual)
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), domain.TriggerScheduled)
	require.NoError(t, err)

	latest, err := runner.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.TriggerScheduled, latest.Trigger)

	history, err := runner.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.TriggerScheduled, history[0].Trigger)
	require.Equal(t, domain.TriggerManual, history[1].Trigger)
}
