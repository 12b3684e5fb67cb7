package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing document tied to one shop. Deletion is a hard delete:
// invoice ids are never reused and removal cascades to items.
type Invoice struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ShopID         uint            `gorm:"not null;index" json:"shop_id"`
	UserID         uint            `gorm:"not null;index" json:"user_id"`
	ContactInfo    string          `gorm:"type:text" json:"contact_info"`
	AdditionalInfo string          `gorm:"type:text" json:"additional_info"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_amount"`
	IsPaid         bool            `gorm:"default:false" json:"is_paid"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// FormattedDate is a read-time presentation value (DD-MM-YY HH:MM),
	// never persisted.
	FormattedDate string `gorm:"-" json:"formatted_date,omitempty"`

	// Relationships
	Shop  *Shop         `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	User  *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// DisplayDateFormat is the layout of FormattedDate.
const DisplayDateFormat = "02-01-06 15:04"

// Decorate fills the read-time presentation fields.
func (i *Invoice) Decorate() {
	i.FormattedDate = i.CreatedAt.Format(DisplayDateFormat)
}

// InvoiceItem is a single line of an invoice. Items are replaced wholesale on
// update; Total is recomputed server-side as Quantity x Price on every update
// write.
type InvoiceItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	InvoiceID uint            `gorm:"not null;index" json:"invoice_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// ComputeTotal returns Quantity x Price.
func (it *InvoiceItem) ComputeTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
