package repository

import (
	"context"
	"errors"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
	domainRepo "github.com/shopbill/shopbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *gorm.DB) domainRepo.ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepository) GetByID(ctx context.Context, id uint) (*entity.Shop, error) {
	var shop entity.Shop
	err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

func (r *shopRepository) ListForUser(ctx context.Context, userID uint) ([]entity.Shop, error) {
	var shops []entity.Shop
	err := r.db.WithContext(ctx).
		Joins("JOIN user_shops ON user_shops.shop_id = shops.id").
		Where("user_shops.user_id = ?", userID).
		Order("shops.id").
		Find(&shops).Error
	return shops, err
}

func (r *shopRepository) HasAccess(ctx context.Context, userID, shopID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_shops").
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Count(&count).Error
	return count > 0, err
}

func (r *shopRepository) AccessibleShopIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("user_shops").
		Where("user_id = ?", userID).
		Pluck("shop_id", &ids).Error
	return ids, err
}

func (r *shopRepository) AddMember(ctx context.Context, shopID, userID uint) error {
	// Idempotent: an existing membership row is left as is.
	exists, err := r.HasAccess(ctx, userID, shopID)
	if err != nil || exists {
		return err
	}
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO user_shops (user_id, shop_id) VALUES (?, ?)", userID, shopID,
	).Error
}

func (r *shopRepository) RemoveMember(ctx context.Context, shopID, userID uint) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM user_shops WHERE user_id = ? AND shop_id = ?", userID, shopID,
	).Error
}
