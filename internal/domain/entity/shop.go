package entity

import (
	"time"
)

// Shop is the tenant boundary: invoices belong to exactly one shop and can
// only be read by members of that shop.
type Shop struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users    []User    `gorm:"many2many:user_shops" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:ShopID" json:"-"`
}

// TableName returns the table name for the Shop model
func (Shop) TableName() string {
	return "shops"
}
