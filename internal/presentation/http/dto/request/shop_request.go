package request

// CreateShopRequest represents a create shop body
type CreateShopRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Address string `json:"address"`
}

// AddShopMemberRequest represents a membership grant body
type AddShopMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}
