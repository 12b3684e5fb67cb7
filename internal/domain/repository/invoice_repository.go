package repository

import (
	"context"
	"time"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InvoiceFilterParams contains filtering parameters for invoice queries.
// AccessibleShopIDs is always applied; the optional fields are applied only
// when non-nil so "not supplied" stays distinguishable from a zero value.
type InvoiceFilterParams struct {
	AccessibleShopIDs []uint
	ShopID            *uint
	IsPaid            *bool
	CreatedAfter      *time.Time
	CreatedBefore     *time.Time
	MinAmount         *decimal.Decimal
	MaxAmount         *decimal.Decimal
	Skip              int
	Limit             int
}

// InvoiceStatsParams contains filtering parameters for the stats summary.
type InvoiceStatsParams struct {
	ShopID    *uint
	StartDate *time.Time
	EndDate   *time.Time
}

// InvoiceStats is the aggregate over a filtered invoice set. Unpaid is
// derived as Total - Paid, not separately queried.
type InvoiceStats struct {
	TotalInvoices  int64   `json:"total_invoices"`
	TotalAmount    float64 `json:"total_amount"`
	AverageAmount  float64 `json:"average_amount"`
	PaidInvoices   int64   `json:"paid_invoices"`
	UnpaidInvoices int64   `json:"unpaid_invoices"`
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// CreateWithItems persists the invoice and its items in one transaction.
	CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error

	GetByID(ctx context.Context, id uint) (*entity.Invoice, error)
	GetWithRelations(ctx context.Context, id uint) (*entity.Invoice, error)

	Update(ctx context.Context, invoice *entity.Invoice) error

	// ReplaceItems deletes the invoice's items, inserts the new set and
	// updates total_amount, all in one transaction.
	ReplaceItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem, totalAmount decimal.Decimal) error

	// Delete hard-deletes the invoice and its items in one transaction.
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, error)
	Stats(ctx context.Context, params *InvoiceStatsParams) (*InvoiceStats, error)

	// MaxID returns the greatest invoice id in the store, 0 when empty.
	MaxID(ctx context.Context) (uint, error)

	// CountForShopBetween counts the shop's invoices created in [from, to).
	CountForShopBetween(ctx context.Context, shopID uint, from, to time.Time) (int64, error)
}
