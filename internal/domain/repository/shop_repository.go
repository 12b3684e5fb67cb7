package repository

import (
	"context"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
)

// ShopRepository defines the interface for shop data and membership operations
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id uint) (*entity.Shop, error)
	ListForUser(ctx context.Context, userID uint) ([]entity.Shop, error)

	// HasAccess reports whether a membership row exists for the user/shop
	// pair. It is the guard applied before every shop-scoped operation.
	HasAccess(ctx context.Context, userID, shopID uint) (bool, error)

	// AccessibleShopIDs returns the ids of every shop the user belongs to.
	AccessibleShopIDs(ctx context.Context, userID uint) ([]uint, error)

	AddMember(ctx context.Context, shopID, userID uint) error
	RemoveMember(ctx context.Context, shopID, userID uint) error
}
