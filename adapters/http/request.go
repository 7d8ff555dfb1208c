package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

// listOptions reads ?order_by=&direction=&limit= from the query string.
func listOptions(c *gin.Context) (listing.Options, error) {
	opts := listing.Options{
		OrderBy:   c.Query("order_by"),
		Direction: c.Query("direction"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return listing.Options{}, apperror.NewInvalidInput("limit must be a non-negative integer", err)
		}
		opts.Limit = limit
	}
	return opts, nil
}

func pathID(c *gin.Context, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NewInvalidInput("invalid "+resource+" ID", err)
	}
	return id, nil
}

// ownerFromContext reports a permission error on c when the guard did not
// attach an owner.
func ownerFromContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
	}
	return ownerID, ok
}
