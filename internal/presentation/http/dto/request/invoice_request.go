package request

import "github.com/shopspring/decimal"

// InvoiceItemRequest represents one line item in a create or update body
type InvoiceItemRequest struct {
	Name     string          `json:"name" binding:"required,max=255"`
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Total    decimal.Decimal `json:"total"`
}

// CreateInvoiceRequest represents a create invoice body
type CreateInvoiceRequest struct {
	ShopID         uint                 `json:"shop_id" binding:"required"`
	ContactInfo    string               `json:"contact_info"`
	AdditionalInfo string               `json:"additional_info"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	IsPaid         bool                 `json:"is_paid"`
	Items          []InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateInvoiceRequest is a partial patch body. Pointer fields distinguish
// "not supplied" from an explicitly cleared value.
type UpdateInvoiceRequest struct {
	ContactInfo    *string              `json:"contact_info"`
	AdditionalInfo *string              `json:"additional_info"`
	IsPaid         *bool                `json:"is_paid"`
	Items          []InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateInvoiceStatusRequest is the body of the paid-status shortcut
type UpdateInvoiceStatusRequest struct {
	IsPaid *bool `json:"is_paid" binding:"required"`
}
