package models

import "time"

// Task is a to-do attached to a customer (or free-standing when
// CustomerID is nil). Local only, untouched by the sync engine.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CustomerID  *uint      `gorm:"index" json:"customer_id"`
	Title       string     `json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueAt       *time.Time `gorm:"index" json:"due_at"`
	Done        bool       `gorm:"default:false" json:"done"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }
