package sync

import (
	"context"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/jtl"
	"github.com/bl4ckh4nd/simplecrm/internal/models"
)

// Status is the lifecycle state of a sync run.
type Status string

const (
	StatusNever   Status = "Never"
	StatusRunning Status = "Running"
	StatusSuccess Status = "Success"
	StatusError   Status = "Error"
	StatusSkipped Status = "Skipped"
	StatusUnknown Status = "Unknown"
)

// Meta keys under which the last known status survives restarts.
const (
	metaLastSyncStatus    = "lastSyncStatus"
	metaLastSyncMessage   = "lastSyncMessage"
	metaLastSyncTimestamp = "lastSyncTimestamp"
)

// DataSource is the external ERP the engine pulls from.
type DataSource interface {
	FetchCustomers(ctx context.Context) ([]jtl.Record, error)
	FetchProducts(ctx context.Context) ([]jtl.Record, error)
}

// Storage is the local store the engine merges into. RunAtomicBatch
// executes fn inside one transaction; writes made through the tx
// handle are rolled back if fn returns an error. RunIsolated nests a
// savepoint inside that transaction: a failure rolls back fn's writes
// only, without poisoning the enclosing transaction. Postgres aborts
// a whole transaction on the first failed statement otherwise.
type Storage interface {
	RunAtomicBatch(ctx context.Context, fn func(tx Storage) error) error
	RunIsolated(ctx context.Context, fn func(tx Storage) error) error
	CustomerByExternalID(ctx context.Context, externalID int64) (*models.Customer, error)
	SaveCustomer(ctx context.Context, c *models.Customer) error
	ProductByExternalID(ctx context.Context, externalID int64) (*models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	GetMeta(ctx context.Context, key string) (value string, ok bool, err error)
	SetMeta(ctx context.Context, key, value string) error
	ReplaceSyncErrors(ctx context.Context, errs []models.SyncRecordError) error
}

// Event is one status snapshot pushed to observers during a run.
type Event struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Progress  int       `json:"progress"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusSnapshot is the persisted last known state, readable from a
// fresh process.
type StatusSnapshot struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// FailedRecord identifies one record that could not be upserted.
type FailedRecord struct {
	ExternalID int64  `json:"external_id"`
	Error      string `json:"error"`
}

// BatchResult aggregates one upsert batch. Processed counts upsert
// calls, so a duplicate external id within a batch counts twice.
type BatchResult struct {
	Processed int
	Failed    []FailedRecord
}

// Result is the outcome of one orchestrated run.
type Result struct {
	Success            bool          `json:"success"`
	Status             Status        `json:"status"`
	Message            string        `json:"message"`
	CustomersTotal     int           `json:"customers_total"`
	CustomersProcessed int           `json:"customers_processed"`
	CustomersFailed    int           `json:"customers_failed"`
	ProductsTotal      int           `json:"products_total"`
	ProductsProcessed  int           `json:"products_processed"`
	ProductsFailed     int           `json:"products_failed"`
	Duration           time.Duration `json:"-"`
}
