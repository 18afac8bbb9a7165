package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/jtl"
	"github.com/bl4ckh4nd/simplecrm/internal/models"
)

// Service orchestrates one-way synchronization from JTL into the
// local store: fetch customers, merge, fetch products, merge,
// finalize. At most one run is in flight per Service instance; a
// second Run while one is active reports Skipped and touches neither
// the data source nor the store.
type Service struct {
	mu      sync.Mutex
	syncing bool

	source   DataSource
	store    Storage
	reporter *Reporter

	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewService creates a sync service. interval <= 0 disables the
// background schedule; Run can still be called directly.
func NewService(source DataSource, store Storage, reporter *Reporter, interval time.Duration) *Service {
	return &Service{
		source:   source,
		store:    store,
		reporter: reporter,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Syncing reports whether a run is currently in flight.
func (s *Service) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// Start begins the background synchronization loop.
func (s *Service) Start() {
	if s.interval <= 0 {
		log.Println("JTL sync schedule disabled: no interval configured")
		return
	}

	go func() {
		log.Printf("📡 JTL sync schedule started (every %v)", s.interval)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Run(context.Background())
			case <-s.stop:
				log.Println("🛑 JTL sync schedule stopped")
				return
			}
		}
	}()
}

// Stop halts the background loop. Safe to call more than once;
// in-flight runs are not cancelled.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Run executes one full sync pass. It never returns an error: every
// outcome, including failure, is folded into the Result and reported
// through the status reporter.
func (s *Service) Run(ctx context.Context) Result {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		msg := "Sync skipped: another sync is already running"
		log.Println("⏳ " + msg)
		s.reporter.Report(ctx, StatusSkipped, msg, 0)
		return Result{Status: StatusSkipped, Message: msg}
	}
	s.syncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	start := time.Now()
	if s.source == nil {
		return s.fail(ctx, start, errors.New("JTL data source is not configured"))
	}

	log.Println("🔄 JTL: Starting sync...")
	s.reporter.Report(ctx, StatusRunning, "Starting JTL sync", 0)

	customers, err := s.source.FetchCustomers(ctx)
	if err != nil {
		return s.fail(ctx, start, fmt.Errorf("failed to fetch customers: %w", err))
	}
	s.reporter.Report(ctx, StatusRunning, fmt.Sprintf("Fetched %d customers", len(customers)), 10)

	now := time.Now()
	customerRes, err := s.mergeBatch(ctx, customers, now, upsertCustomerBatch)
	if err != nil {
		return s.fail(ctx, start, fmt.Errorf("failed to merge customers: %w", err))
	}
	s.reporter.Report(ctx, StatusRunning, fmt.Sprintf("Merged %d customers", customerRes.Processed), 50)

	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		return s.fail(ctx, start, fmt.Errorf("failed to fetch products: %w", err))
	}
	s.reporter.Report(ctx, StatusRunning, fmt.Sprintf("Fetched %d products", len(products)), 60)

	productRes, err := s.mergeBatch(ctx, products, now, upsertProductBatch)
	if err != nil {
		return s.fail(ctx, start, fmt.Errorf("failed to merge products: %w", err))
	}
	s.reporter.Report(ctx, StatusRunning, fmt.Sprintf("Merged %d products", productRes.Processed), 95)

	s.persistRecordErrors(ctx, now, customerRes.Failed, productRes.Failed)

	elapsed := time.Since(start)
	msg := fmt.Sprintf("Sync completed successfully in %.2fs. Synced %d customers, %d products.",
		elapsed.Seconds(), customerRes.Processed, productRes.Processed)
	if failed := len(customerRes.Failed) + len(productRes.Failed); failed > 0 {
		msg = fmt.Sprintf("%s %d records failed.", msg, failed)
	}

	log.Println("✅ JTL: " + msg)
	s.reporter.Report(ctx, StatusSuccess, msg, 100)

	return Result{
		Success:            true,
		Status:             StatusSuccess,
		Message:            msg,
		CustomersTotal:     len(customers),
		CustomersProcessed: customerRes.Processed,
		CustomersFailed:    len(customerRes.Failed),
		ProductsTotal:      len(products),
		ProductsProcessed:  productRes.Processed,
		ProductsFailed:     len(productRes.Failed),
		Duration:           elapsed,
	}
}

type batchFunc func(ctx context.Context, tx Storage, records []jtl.Record, now time.Time) BatchResult

// mergeBatch runs one upsert batch inside a single atomic batch. The
// returned error means the batch itself could not be opened, which is
// fatal to the run; per-record failures live inside the BatchResult.
func (s *Service) mergeBatch(ctx context.Context, records []jtl.Record, now time.Time, upsert batchFunc) (BatchResult, error) {
	var res BatchResult
	err := s.store.RunAtomicBatch(ctx, func(tx Storage) error {
		res = upsert(ctx, tx, records, now)
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}
	for _, f := range res.Failed {
		log.Printf("⚠️ JTL: record %d skipped: %s", f.ExternalID, f.Error)
	}
	return res, nil
}

// persistRecordErrors replaces the last-sync-errors table. Best
// effort: a failure here never aborts a completed run.
func (s *Service) persistRecordErrors(ctx context.Context, runAt time.Time, customers, products []FailedRecord) {
	errs := make([]models.SyncRecordError, 0, len(customers)+len(products))
	for _, f := range customers {
		errs = append(errs, models.SyncRecordError{
			EntityType: "customer",
			ExternalID: f.ExternalID,
			Message:    f.Error,
			RunAt:      runAt,
		})
	}
	for _, f := range products {
		errs = append(errs, models.SyncRecordError{
			EntityType: "product",
			ExternalID: f.ExternalID,
			Message:    f.Error,
			RunAt:      runAt,
		})
	}

	if err := s.store.ReplaceSyncErrors(ctx, errs); err != nil {
		log.Printf("⚠️ Failed to persist sync record errors: %v", err)
	}
}

func (s *Service) fail(ctx context.Context, start time.Time, err error) Result {
	msg := "Sync failed: " + err.Error()
	log.Println("❌ JTL: " + msg)
	s.reporter.Report(ctx, StatusError, msg, 100)
	return Result{
		Status:   StatusError,
		Message:  msg,
		Duration: time.Since(start),
	}
}
