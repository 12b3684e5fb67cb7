package service

import (
	"context"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
	"github.com/shopbill/shopbill-api/internal/domain/repository"
	"github.com/shopbill/shopbill-api/pkg/apperror"
)

// ShopService handles shop and membership management
type ShopService struct {
	shopRepo repository.ShopRepository
	userRepo repository.UserRepository
}

// NewShopService creates a new shop service
func NewShopService(shopRepo repository.ShopRepository, userRepo repository.UserRepository) *ShopService {
	return &ShopService{shopRepo: shopRepo, userRepo: userRepo}
}

// ListShops returns the shops the user belongs to
func (s *ShopService) ListShops(ctx context.Context, user *entity.User) ([]entity.Shop, error) {
	return s.shopRepo.ListForUser(ctx, user.ID)
}

// GetShop returns one shop; the caller must be a member or a superuser
func (s *ShopService) GetShop(ctx context.Context, user *entity.User, shopID uint) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}

	if !user.IsSuperuser {
		hasAccess, err := s.shopRepo.HasAccess(ctx, user.ID, shopID)
		if err != nil {
			return nil, err
		}
		if !hasAccess {
			return nil, apperror.NewForbiddenError("No access to this shop")
		}
	}
	return shop, nil
}

// CreateShop creates a shop and enrolls the creator as its first member
func (s *ShopService) CreateShop(ctx context.Context, user *entity.User, name, address string) (*entity.Shop, error) {
	shop := &entity.Shop{Name: name, Address: address}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}
	if err := s.shopRepo.AddMember(ctx, shop.ID, user.ID); err != nil {
		return nil, err
	}
	return shop, nil
}

// AddMember grants a user membership of a shop. Superuser only.
func (s *ShopService) AddMember(ctx context.Context, actor *entity.User, shopID, userID uint) error {
	if !actor.IsSuperuser {
		return apperror.NewForbiddenError("Only admins can manage shop members")
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return apperror.NewNotFoundError("Shop")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	return s.shopRepo.AddMember(ctx, shopID, userID)
}

// RemoveMember revokes a user's membership of a shop. Superuser only.
func (s *ShopService) RemoveMember(ctx context.Context, actor *entity.User, shopID, userID uint) error {
	if !actor.IsSuperuser {
		return apperror.NewForbiddenError("Only admins can manage shop members")
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return apperror.NewNotFoundError("Shop")
	}

	return s.shopRepo.RemoveMember(ctx, shopID, userID)
}
