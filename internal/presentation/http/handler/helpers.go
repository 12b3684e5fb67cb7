package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopbill/shopbill-api/internal/domain/entity"
	"github.com/shopbill/shopbill-api/internal/presentation/http/middleware"
)

// CurrentUser extracts the authenticated user placed in the context by the
// auth middleware.
func CurrentUser(c *gin.Context) *entity.User {
	userVal, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		return nil
	}
	user, ok := userVal.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

// parseUintParam parses a numeric path parameter
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// parseTimeQuery parses a timestamp query value, accepting RFC3339 and plain
// dates.
func parseTimeQuery(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
