package sync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bl4ckh4nd/simplecrm/internal/jtl"
	"github.com/bl4ckh4nd/simplecrm/internal/models"
)

// fakeStore is an in-memory Storage implementation. Reads hand out
// copies so mutations only land through an explicit Save, like a real
// database round trip.
type fakeStore struct {
	mu sync.Mutex

	customers     map[int64]*models.Customer
	products      map[int64]*models.Product
	localProducts []*models.Product
	meta          map[string]string
	syncErrors    []models.SyncRecordError
	nextID        uint

	failCustomerSave map[int64]error
	failProductSave  map[int64]error
	batchOpenErr     error
	metaGetErr       error
	metaSetErr       error
	replaceErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:        make(map[int64]*models.Customer),
		products:         make(map[int64]*models.Product),
		meta:             make(map[string]string),
		failCustomerSave: make(map[int64]error),
		failProductSave:  make(map[int64]error),
	}
}

// RunAtomicBatch hands fn a fakeTx that mimics Postgres transaction
// semantics: a failed statement outside a savepoint poisons the
// transaction and the commit turns into a rollback.
func (f *fakeStore) RunAtomicBatch(ctx context.Context, fn func(tx Storage) error) error {
	if f.batchOpenErr != nil {
		return f.batchOpenErr
	}
	tx := &fakeTx{store: f}
	if err := fn(tx); err != nil {
		return err
	}
	if tx.poisoned {
		return errors.New("commit unexpectedly resulted in rollback")
	}
	return nil
}

// RunIsolated on the bare store has no enclosing transaction to
// protect; it just runs fn.
func (f *fakeStore) RunIsolated(ctx context.Context, fn func(tx Storage) error) error {
	return fn(f)
}

func (f *fakeStore) CustomerByExternalID(ctx context.Context, externalID int64) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[externalID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) SaveCustomer(ctx context.Context, c *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failCustomerSave[*c.ExternalID]; err != nil {
		return err
	}
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	}
	cp := *c
	f.customers[*c.ExternalID] = &cp
	return nil
}

func (f *fakeStore) ProductByExternalID(ctx context.Context, externalID int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[externalID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) SaveProduct(ctx context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failProductSave[*p.ExternalID]; err != nil {
		return err
	}
	if p.ID == 0 {
		f.nextID++
		p.ID = f.nextID
	}
	cp := *p
	f.products[*p.ExternalID] = &cp
	return nil
}

func (f *fakeStore) GetMeta(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metaGetErr != nil {
		return "", false, f.metaGetErr
	}
	v, ok := f.meta[key]
	return v, ok, nil
}

func (f *fakeStore) SetMeta(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metaSetErr != nil {
		return f.metaSetErr
	}
	f.meta[key] = value
	return nil
}

func (f *fakeStore) ReplaceSyncErrors(ctx context.Context, errs []models.SyncRecordError) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.syncErrors = errs
	return nil
}

var errTxAborted = errors.New("current transaction is aborted, commands ignored until end of transaction block")

// fakeTx is one open transaction on a fakeStore. After any failed
// statement every further statement fails with errTxAborted, the way
// Postgres aborts a transaction, unless the failure happened inside a
// RunIsolated savepoint.
type fakeTx struct {
	store    *fakeStore
	poisoned bool
}

func (t *fakeTx) RunAtomicBatch(ctx context.Context, fn func(tx Storage) error) error {
	return fn(t)
}

// RunIsolated runs fn on a child transaction; a failure rolls back to
// the savepoint and leaves the parent healthy.
func (t *fakeTx) RunIsolated(ctx context.Context, fn func(tx Storage) error) error {
	if t.poisoned {
		return errTxAborted
	}
	return fn(&fakeTx{store: t.store})
}

func (t *fakeTx) CustomerByExternalID(ctx context.Context, externalID int64) (*models.Customer, error) {
	if t.poisoned {
		return nil, errTxAborted
	}
	c, err := t.store.CustomerByExternalID(ctx, externalID)
	if err != nil {
		t.poisoned = true
	}
	return c, err
}

func (t *fakeTx) SaveCustomer(ctx context.Context, c *models.Customer) error {
	if t.poisoned {
		return errTxAborted
	}
	if err := t.store.SaveCustomer(ctx, c); err != nil {
		t.poisoned = true
		return err
	}
	return nil
}

func (t *fakeTx) ProductByExternalID(ctx context.Context, externalID int64) (*models.Product, error) {
	if t.poisoned {
		return nil, errTxAborted
	}
	p, err := t.store.ProductByExternalID(ctx, externalID)
	if err != nil {
		t.poisoned = true
	}
	return p, err
}

func (t *fakeTx) SaveProduct(ctx context.Context, p *models.Product) error {
	if t.poisoned {
		return errTxAborted
	}
	if err := t.store.SaveProduct(ctx, p); err != nil {
		t.poisoned = true
		return err
	}
	return nil
}

func (t *fakeTx) GetMeta(ctx context.Context, key string) (string, bool, error) {
	if t.poisoned {
		return "", false, errTxAborted
	}
	return t.store.GetMeta(ctx, key)
}

func (t *fakeTx) SetMeta(ctx context.Context, key, value string) error {
	if t.poisoned {
		return errTxAborted
	}
	return t.store.SetMeta(ctx, key, value)
}

func (t *fakeTx) ReplaceSyncErrors(ctx context.Context, errs []models.SyncRecordError) error {
	if t.poisoned {
		return errTxAborted
	}
	return t.store.ReplaceSyncErrors(ctx, errs)
}

// fakeSource is a canned DataSource. When gate is non-nil,
// FetchCustomers blocks until the gate closes, which lets tests hold a
// run open while poking at the service.
type fakeSource struct {
	customers    []jtl.Record
	products     []jtl.Record
	customersErr error
	productsErr  error

	customerCalls atomic.Int32
	productCalls  atomic.Int32

	gate        chan struct{}
	fetchBegan  chan struct{}
	signalBegan sync.Once
}

func (f *fakeSource) FetchCustomers(ctx context.Context) ([]jtl.Record, error) {
	f.customerCalls.Add(1)
	if f.fetchBegan != nil {
		f.signalBegan.Do(func() { close(f.fetchBegan) })
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.customersErr != nil {
		return nil, f.customersErr
	}
	return f.customers, nil
}

func (f *fakeSource) FetchProducts(ctx context.Context) ([]jtl.Record, error) {
	f.productCalls.Add(1)
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}
