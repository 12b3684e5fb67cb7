package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopbill/shopbill-api/internal/application/service"
	"github.com/shopbill/shopbill-api/internal/presentation/http/dto/request"
	"github.com/shopbill/shopbill-api/internal/presentation/http/dto/response"
)

// ShopHandler handles shop-related HTTP requests
type ShopHandler struct {
	shopService *service.ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// List returns the shops the caller is a member of
func (h *ShopHandler) List(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	shops, err := h.shopService.ListShops(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, shops)
}

// Get returns a single shop
func (h *ShopHandler) Get(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		response.ValidationError(c, "shop id must be a positive integer")
		return
	}

	shop, err := h.shopService.GetShop(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, shop)
}

// Create creates a shop with the caller as its first member
func (h *ShopHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	var req request.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	shop, err := h.shopService.CreateShop(c.Request.Context(), user, req.Name, req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, shop)
}

// AddMember grants another user membership of a shop
func (h *ShopHandler) AddMember(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	shopID, ok := parseUintParam(c, "id")
	if !ok {
		response.ValidationError(c, "shop id must be a positive integer")
		return
	}

	var req request.AddShopMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "user_id is required")
		return
	}

	if err := h.shopService.AddMember(c.Request.Context(), user, shopID, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Member added"})
}

// RemoveMember revokes a user's membership of a shop
func (h *ShopHandler) RemoveMember(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	shopID, ok := parseUintParam(c, "id")
	if !ok {
		response.ValidationError(c, "shop id must be a positive integer")
		return
	}

	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		response.ValidationError(c, "user id must be a positive integer")
		return
	}

	if err := h.shopService.RemoveMember(c.Request.Context(), user, shopID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
