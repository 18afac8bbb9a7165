package store

import (
	"context"
	"errors"

	"github.com/bl4ckh4nd/simplecrm/internal/database"
	"github.com/bl4ckh4nd/simplecrm/internal/models"
	"github.com/bl4ckh4nd/simplecrm/internal/sync"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the local persistence layer. It backs both the CRUD
// handlers and, through the sync.Storage interface, the JTL merge
// engine.
type Store struct {
	db *gorm.DB
}

// New creates a store on top of the connected database.
func New(db *database.DB) *Store {
	return &Store{db: db.DB}
}

// RunAtomicBatch executes fn inside a single transaction. Writes made
// through the handle passed to fn roll back if fn returns an error.
func (s *Store) RunAtomicBatch(ctx context.Context, fn func(tx sync.Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// RunIsolated executes fn inside a savepoint when the store is already
// transactional (GORM nests via SAVEPOINT). A failed statement inside
// fn rolls back to the savepoint instead of aborting the enclosing
// transaction, which Postgres would otherwise do for every statement
// after the first error.
func (s *Store) RunIsolated(ctx context.Context, fn func(tx sync.Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CustomerByExternalID returns the customer with the given JTL id, or
// nil when no such row exists.
func (s *Store) CustomerByExternalID(ctx context.Context, externalID int64) (*models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCustomer inserts or updates a customer row.
func (s *Store) SaveCustomer(ctx context.Context, c *models.Customer) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// ProductByExternalID returns the product with the given JTL id, or
// nil when no such row exists. Rows with a NULL external_id are never
// matched.
func (s *Store) ProductByExternalID(ctx context.Context, externalID int64) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProduct inserts or updates a product row.
func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// GetMeta reads one key/value entry. ok is false when the key has
// never been written.
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var m models.MetaEntry
	err := s.db.WithContext(ctx).First(&m, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Value, true, nil
}

// SetMeta writes one key/value entry, last write wins.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.MetaEntry{Key: key, Value: value}).Error
}

// ReplaceSyncErrors swaps the last-sync-errors table for the outcome
// of the most recent run.
func (s *Store) ReplaceSyncErrors(ctx context.Context, errs []models.SyncRecordError) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SyncRecordError{}).Error; err != nil {
			return err
		}
		if len(errs) == 0 {
			return nil
		}
		return tx.Create(&errs).Error
	})
}

// SyncErrors lists the per-record failures of the most recent run.
func (s *Store) SyncErrors(ctx context.Context) ([]models.SyncRecordError, error) {
	var errs []models.SyncRecordError
	err := s.db.WithContext(ctx).Order("id").Find(&errs).Error
	return errs, err
}
