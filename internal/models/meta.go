package models

import "time"

// MetaEntry is a generic key/value row used for persisted application
// state, most importantly the last sync status snapshot.
type MetaEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MetaEntry) TableName() string { return "meta_entries" }

// SyncRecordError is one per-record failure from the most recent sync
// run. The table is replaced wholesale at the end of each run.
type SyncRecordError struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntityType string    `gorm:"type:varchar(20);index" json:"entity_type"` // customer, product
	ExternalID int64     `json:"external_id"`
	Message    string    `gorm:"type:text" json:"message"`
	RunAt      time.Time `json:"run_at"`
}

func (SyncRecordError) TableName() string { return "sync_record_errors" }
