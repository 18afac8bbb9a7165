package models

import (
	"time"

	"gorm.io/datatypes"
)

// Product is a CRM product. ExternalID (kArtikel) is nil for locally
// created products; the sync engine only ever matches non-nil ids.
type Product struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID *int64 `gorm:"uniqueIndex" json:"external_id"`

	SKU                 *string    `gorm:"index" json:"sku"`
	Name                string     `json:"name"`
	Description         *string    `gorm:"type:text" json:"description"`
	Price               float64    `json:"price"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	ExternalDateCreated *time.Time `json:"external_date_created"`

	RawData datatypes.JSON `gorm:"type:jsonb" json:"raw_data,omitempty"`

	LastSyncedAt          *time.Time `json:"last_synced_at"`
	LastModifiedLocallyAt *time.Time `gorm:"index" json:"last_modified_locally_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }
