package models

import (
	"time"

	"gorm.io/datatypes"
)

// Customer is a CRM customer. Rows synced from JTL carry a non-nil
// ExternalID (kKunde); locally created customers have none.
type Customer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID *int64 `gorm:"uniqueIndex" json:"external_id"`

	// ERP-sourced fields, overwritten whenever a sync sees a change.
	Name                string     `gorm:"index" json:"name"`
	FirstName           string     `json:"first_name"`
	Company             string     `json:"company"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Mobile              string     `json:"mobile"`
	Street              string     `json:"street"`
	ZipCode             string     `json:"zip_code"`
	City                string     `json:"city"`
	Country             string     `json:"country"`
	ExternalDateCreated *time.Time `json:"external_date_created"`
	ExternalBlocked     bool       `json:"external_blocked"`

	// Local-only fields, never touched by the sync engine.
	Notes string `gorm:"type:text" json:"notes"`

	RawData datatypes.JSON `gorm:"type:jsonb" json:"raw_data,omitempty"`

	// LastSyncedAt moves on every successful sync pass; LastModifiedLocallyAt
	// only when a sync actually changed visible fields (or on local edits).
	LastSyncedAt          *time.Time `json:"last_synced_at"`
	LastModifiedLocallyAt *time.Time `gorm:"index" json:"last_modified_locally_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Deals []Deal `gorm:"foreignKey:CustomerID" json:"deals,omitempty"`
	Tasks []Task `gorm:"foreignKey:CustomerID" json:"tasks,omitempty"`
}

func (Customer) TableName() string { return "customers" }
