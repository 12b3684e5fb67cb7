package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
	domainRepo "github.com/shopbill/shopbill-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uint) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Shop").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetWithRelations(ctx context.Context, id uint) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Shop").
		Preload("User").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items", "Shop", "User").Save(invoice).Error
}

func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem, totalAmount decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.InvoiceItem{}, "invoice_id = ?", invoice.ID).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		invoice.TotalAmount = totalAmount
		return tx.Model(&entity.Invoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{
				"contact_info":    invoice.ContactInfo,
				"additional_info": invoice.AdditionalInfo,
				"is_paid":         invoice.IsPaid,
				"total_amount":    totalAmount,
			}).Error
	})
}

func (r *invoiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, error) {
	invoices := make([]entity.Invoice, 0)
	if len(params.AccessibleShopIDs) == 0 {
		return invoices, nil
	}

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("shop_id IN ?", params.AccessibleShopIDs)

	if params.ShopID != nil {
		query = query.Where("shop_id = ?", *params.ShopID)
	}
	if params.IsPaid != nil {
		query = query.Where("is_paid = ?", *params.IsPaid)
	}
	if params.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *params.CreatedAfter)
	}
	if params.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *params.CreatedBefore)
	}
	if params.MinAmount != nil {
		query = query.Where("total_amount >= ?", *params.MinAmount)
	}
	if params.MaxAmount != nil {
		query = query.Where("total_amount <= ?", *params.MaxAmount)
	}

	err := query.
		Preload("Items").
		Preload("Shop").
		Preload("User").
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Stats(ctx context.Context, params *domainRepo.InvoiceStatsParams) (*domainRepo.InvoiceStats, error) {
	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select(
			"COUNT(id) AS total_invoices, " +
				"COALESCE(SUM(total_amount), 0) AS total_amount, " +
				"COALESCE(AVG(total_amount), 0) AS average_amount, " +
				"COALESCE(SUM(CASE WHEN is_paid THEN 1 ELSE 0 END), 0) AS paid_invoices",
		)

	if params.ShopID != nil {
		query = query.Where("shop_id = ?", *params.ShopID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	var stats domainRepo.InvoiceStats
	if err := query.Scan(&stats).Error; err != nil {
		return nil, err
	}
	stats.UnpaidInvoices = stats.TotalInvoices - stats.PaidInvoices
	return &stats, nil
}

func (r *invoiceRepository) MaxID(ctx context.Context) (uint, error) {
	var maxID uint
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	return maxID, err
}

func (r *invoiceRepository) CountForShopBetween(ctx context.Context, shopID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("shop_id = ? AND created_at >= ? AND created_at < ?", shopID, from, to).
		Count(&count).Error
	return count, err
}
