package store

import (
	"context"

	"github.com/bl4ckh4nd/simplecrm/internal/models"
)

// CRUD plumbing for the HTTP handlers. Local edits made through these
// methods are the "local wins" side of the sync merge policy: the
// engine only ever rewrites ERP-sourced fields.

// ListCustomers returns customers ordered by name, optionally
// filtered by a case-insensitive substring over name and company.
func (s *Store) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	q := s.db.WithContext(ctx).Order("name, first_name")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR company ILIKE ?", like, like)
	}
	var customers []models.Customer
	err := q.Find(&customers).Error
	return customers, err
}

func (s *Store) CustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).Preload("Deals").Preload("Tasks").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	return s.db.WithContext(ctx).Save(c).Error
}

func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Customer{}, id).Error
}

// ListProducts returns products ordered by name. When activeOnly is
// set, inactive (ERP-blocked) products are filtered out.
func (s *Store) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active")
	}
	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

func (s *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (s *Store) ListDeals(ctx context.Context, customerID uint) ([]models.Deal, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	var deals []models.Deal
	err := q.Find(&deals).Error
	return deals, err
}

func (s *Store) DealByID(ctx context.Context, id uint) (*models.Deal, error) {
	var d models.Deal
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) CreateDeal(ctx context.Context, d *models.Deal) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *Store) UpdateDeal(ctx context.Context, d *models.Deal) error {
	return s.db.WithContext(ctx).Save(d).Error
}

func (s *Store) DeleteDeal(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Deal{}, id).Error
}

func (s *Store) ListTasks(ctx context.Context, customerID uint, openOnly bool) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Order("due_at NULLS LAST, id")
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	if openOnly {
		q = q.Where("NOT done")
	}
	var tasks []models.Task
	err := q.Find(&tasks).Error
	return tasks, err
}

func (s *Store) TaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}
