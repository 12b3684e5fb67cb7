package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
	"github.com/shopbill/shopbill-api/internal/domain/repository"
	"github.com/shopbill/shopbill-api/pkg/apperror"
	"github.com/shopbill/shopbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice numbering, CRUD, filtered listing and stats
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	shopRepo    repository.ShopRepository
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, shopRepo repository.ShopRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		shopRepo:    shopRepo,
		now:         time.Now,
	}
}

// InvoiceItemInput represents one line item supplied by the caller
type InvoiceItemInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	ShopID         uint
	ContactInfo    string
	AdditionalInfo string
	TotalAmount    decimal.Decimal
	IsPaid         bool
	Items          []InvoiceItemInput
}

// UpdateInvoiceInput is a partial patch: nil fields are left untouched so
// "not supplied" stays distinguishable from an explicit zero value. A
// non-empty Items slice replaces the existing items wholesale.
type UpdateInvoiceInput struct {
	ContactInfo    *string
	AdditionalInfo *string
	IsPaid         *bool
	Items          []InvoiceItemInput
}

// InvoiceFilters are the optional list filters; all bounds are inclusive.
type InvoiceFilters struct {
	ShopID        *uint
	IsPaid        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
}

// NextInvoiceNumber is the allocator's answer: a display hint, not a
// reservation. The persisted id is assigned by the store on insert.
type NextInvoiceNumber struct {
	NextID          uint   `json:"next_id"`
	FormattedNumber string `json:"formatted_number"`
	ShopID          uint   `json:"shop_id"`
	Date            string `json:"date"`
}

// AllocateInvoiceNumber computes the next global id hint and the per-shop
// daily display number for the current calendar day (server time zone).
// Two concurrent calls for the same shop and day can compute the same
// sequence; the formatted number is a display label, not a uniqueness
// constraint, so the race is accepted.
func (s *InvoiceService) AllocateInvoiceNumber(ctx context.Context, user *entity.User, shopID uint) (*NextInvoiceNumber, error) {
	hasAccess, err := s.shopRepo.HasAccess(ctx, user.ID, shopID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, apperror.NewForbiddenError("No access to this shop")
	}

	maxID, err := s.invoiceRepo.MaxID(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	count, err := s.invoiceRepo.CountForShopBetween(ctx, shopID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return &NextInvoiceNumber{
		NextID:          maxID + 1,
		FormattedNumber: fmt.Sprintf("%s-%d-%03d", dayStart.Format("20060102"), shopID, count+1),
		ShopID:          shopID,
		Date:            dayStart.Format("2006-01-02"),
	}, nil
}

// CreateInvoice persists an invoice with its items in one transaction.
// Item totals and the invoice total are taken as supplied by the caller at
// creation time; only updates recompute them server-side.
func (s *InvoiceService) CreateInvoice(ctx context.Context, user *entity.User, input *CreateInvoiceInput) (*entity.Invoice, error) {
	hasAccess, err := s.shopRepo.HasAccess(ctx, user.ID, input.ShopID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, apperror.NewForbiddenError("No access to this shop")
	}

	shop, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}

	invoice := &entity.Invoice{
		ShopID:         input.ShopID,
		UserID:         user.ID,
		ContactInfo:    input.ContactInfo,
		AdditionalInfo: input.AdditionalInfo,
		TotalAmount:    input.TotalAmount,
		IsPaid:         input.IsPaid,
	}

	items := make([]entity.InvoiceItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, entity.InvoiceItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
		})
	}

	if err := s.invoiceRepo.CreateWithItems(ctx, invoice, items); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// GetInvoice returns one invoice with items, shop and creator loaded.
func (s *InvoiceService) GetInvoice(ctx context.Context, user *entity.User, id uint) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	hasAccess, err := s.shopRepo.HasAccess(ctx, user.ID, invoice.ShopID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, apperror.NewForbiddenError("No access to this invoice")
	}

	return invoice, nil
}

// UpdateInvoice applies a partial patch. Superuser status gates mutation:
// shop membership alone is not sufficient. A non-empty Items slice replaces
// the stored items wholesale, with line totals recomputed server-side as
// quantity x price and total_amount set to their sum.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, user *entity.User, id uint, patch *UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if !user.IsSuperuser {
		return nil, apperror.NewForbiddenError("Only admins can update invoices")
	}

	if patch.ContactInfo != nil {
		invoice.ContactInfo = *patch.ContactInfo
	}
	if patch.AdditionalInfo != nil {
		invoice.AdditionalInfo = *patch.AdditionalInfo
	}
	if patch.IsPaid != nil {
		invoice.IsPaid = *patch.IsPaid
	}

	if len(patch.Items) > 0 {
		items := make([]entity.InvoiceItem, 0, len(patch.Items))
		totalAmount := decimal.Zero
		for _, it := range patch.Items {
			item := entity.InvoiceItem{
				Name:     it.Name,
				Quantity: it.Quantity,
				Price:    it.Price,
			}
			item.Total = item.ComputeTotal()
			totalAmount = totalAmount.Add(item.Total)
			items = append(items, item)
		}
		if err := s.invoiceRepo.ReplaceItems(ctx, invoice, items, totalAmount); err != nil {
			return nil, err
		}
	} else {
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return nil, err
		}
	}

	return s.invoiceRepo.GetByID(ctx, id)
}

// DeleteInvoice hard-deletes an invoice and its items. Superuser only.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, user *entity.User, id uint) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	if !user.IsSuperuser {
		return apperror.NewForbiddenError("Only admins can delete invoices")
	}

	return s.invoiceRepo.Delete(ctx, id)
}

// ListInvoices returns the caller's invoices, newest first. The restriction
// to the caller's shop membership set is unconditional; an explicit shop_id
// outside that set fails Forbidden before any other filter is applied.
func (s *InvoiceService) ListInvoices(ctx context.Context, user *entity.User, filters *InvoiceFilters, page pagination.Params) ([]entity.Invoice, error) {
	accessible, err := s.shopRepo.AccessibleShopIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if filters.ShopID != nil {
		found := false
		for _, id := range accessible {
			if id == *filters.ShopID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperror.NewForbiddenError("No access to this shop")
		}
	}

	page.Normalize()
	invoices, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		AccessibleShopIDs: accessible,
		ShopID:            filters.ShopID,
		IsPaid:            filters.IsPaid,
		CreatedAfter:      filters.CreatedAfter,
		CreatedBefore:     filters.CreatedBefore,
		MinAmount:         filters.MinAmount,
		MaxAmount:         filters.MaxAmount,
		Skip:              page.Skip,
		Limit:             page.Limit,
	})
	if err != nil {
		return nil, err
	}

	for i := range invoices {
		invoices[i].Decorate()
	}
	return invoices, nil
}

// SummarizeInvoices computes count/sum/average/paid-vs-unpaid over a
// filtered invoice set. The shop membership check is applied only when
// shop_id is supplied.
func (s *InvoiceService) SummarizeInvoices(ctx context.Context, user *entity.User, shopID *uint, startDate, endDate *time.Time) (*repository.InvoiceStats, error) {
	if shopID != nil {
		hasAccess, err := s.shopRepo.HasAccess(ctx, user.ID, *shopID)
		if err != nil {
			return nil, err
		}
		if !hasAccess {
			return nil, apperror.NewForbiddenError("No access to this shop")
		}
	}

	return s.invoiceRepo.Stats(ctx, &repository.InvoiceStatsParams{
		ShopID:    shopID,
		StartDate: startDate,
		EndDate:   endDate,
	})
}
