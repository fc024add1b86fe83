package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisharea/storefront/pkg/auth"
	"github.com/wisharea/storefront/pkg/cart"
	"github.com/wisharea/storefront/pkg/checkout"
	"github.com/wisharea/storefront/pkg/models"
	"github.com/wisharea/storefront/pkg/repository"
	"github.com/wisharea/storefront/pkg/wishlist"
	"go.uber.org/zap"
)

var errProductNotFound = errors.New("product not found")

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without detail.
func (g *Gateway) writeError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})

	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, auth.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in to continue"})
	case errors.Is(err, auth.ErrEmailInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})

	case errors.Is(err, errProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, wishlist.ErrInvalidProduct),
		errors.Is(err, checkout.ErrUnknownShippingMethod),
		errors.Is(err, checkout.ErrUnknownPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNotAtPayment),
		errors.Is(err, checkout.ErrNoNextStep),
		errors.Is(err, checkout.ErrNoPreviousStep),
		errors.Is(err, checkout.ErrCompleted),
		errors.Is(err, checkout.ErrInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})

	default:
		g.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
