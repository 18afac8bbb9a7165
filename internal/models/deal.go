package models

import "time"

// Deal statuses
const (
	DealStatusOpen = "open"
	DealStatusWon  = "won"
	DealStatusLost = "lost"
)

// Deal is a sales opportunity attached to a customer. Deals are purely
// local; the JTL sync never reads or writes them.
type Deal struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CustomerID uint       `gorm:"index" json:"customer_id"`
	Title      string     `json:"title"`
	Value      float64    `json:"value"`
	Status     string     `gorm:"type:varchar(20);default:'open';index" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes"`
	ClosedAt   *time.Time `json:"closed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Deal) TableName() string { return "deals" }
