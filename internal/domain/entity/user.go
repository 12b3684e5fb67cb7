package entity

import (
	"time"
)

// User represents an account that can log in and work with shop invoices.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Login       string    `gorm:"size:255;uniqueIndex;not null" json:"login"`
	Email       string    `gorm:"size:255" json:"email,omitempty"`
	Phone       string    `gorm:"size:50" json:"phone,omitempty"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	IsSuperuser bool      `gorm:"default:false" json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Shops the user is a member of; membership gates invoice access.
	Shops []Shop `gorm:"many2many:user_shops" json:"shops,omitempty"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
