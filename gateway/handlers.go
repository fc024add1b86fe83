package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/auth"
	"github.com/wisharea/storefront/pkg/cart"
	"github.com/wisharea/storefront/pkg/catalog"
	"github.com/wisharea/storefront/pkg/checkout"
	"github.com/wisharea/storefront/pkg/models"
	"go.uber.org/zap"
)

// Sessions

func (g *Gateway) createSession(c *gin.Context) {
	s, token, err := g.sessions.Create(c.Request.Context())
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sessionId": s.ID, "token": token})
}

// Catalog

func (g *Gateway) listProducts(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	products := g.catalog.FilterBy(criteria)
	c.JSON(http.StatusOK, gin.H{"products": newProductViews(products), "total": len(products)})
}

func (g *Gateway) getProduct(c *gin.Context) {
	p, ok := g.catalog.GetByID(c.Param("id"))
	if !ok {
		g.writeError(c, errProductNotFound)
		return
	}
	c.JSON(http.StatusOK, newProductView(p))
}

func (g *Gateway) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": g.catalog.Categories()})
}

func (g *Gateway) listCategoryProducts(c *gin.Context) {
	products := g.catalog.ByCategory(c.Param("slug"))
	c.JSON(http.StatusOK, gin.H{"products": newProductViews(products), "total": len(products)})
}

// productView adds the sale badge flag to the catalog record.
type productView struct {
	models.Product
	OnSale bool `json:"onSale"`
}

func newProductView(p models.Product) productView {
	return productView{Product: p, OnSale: p.OnSale()}
}

func newProductViews(ps []models.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newProductView(p))
	}
	return out
}

func parseCriteria(c *gin.Context) (catalog.Criteria, error) {
	cr := catalog.Criteria{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		SortBy:   catalog.SortOrder(c.Query("sort")),
	}
	for _, f := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"minPrice", &cr.MinPrice},
		{"maxPrice", &cr.MaxPrice},
	} {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return cr, fmt.Errorf("invalid %s", f.name)
		}
		*f.dst = &d
	}
	if raw := c.Query("minRating"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cr, errors.New("invalid minRating")
		}
		cr.MinRating = &r
	}
	if raw := c.Query("inStock"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return cr, errors.New("invalid inStock")
		}
		cr.InStockOnly = b
	}
	return cr, nil
}

// Cart

type cartResponse struct {
	cart.Snapshot
	Display map[string]string `json:"display"`
}

func newCartResponse(snap cart.Snapshot) cartResponse {
	return cartResponse{
		Snapshot: snap,
		Display: map[string]string{
			"subtotal": cart.FormatUSD(snap.Summary.Subtotal),
			"shipping": cart.FormatUSD(snap.Summary.Shipping),
			"tax":      cart.FormatUSD(snap.Summary.Tax),
			"total":    cart.FormatUSD(snap.Summary.Total),
		},
	}
}

// The max bounds mirror cart.MaxQuantity.
type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1,max=9999"`
}

// Zero or less removes the line.
type quantityRequest struct {
	Quantity int `json:"quantity" binding:"max=9999"`
}

func (g *Gateway) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, newCartResponse(currentSession(c).Cart.Snapshot()))
}

func (g *Gateway) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, ok := g.catalog.GetByID(req.ProductID)
	if !ok {
		g.writeError(c, errProductNotFound)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	store := currentSession(c).Cart
	if err := store.AddItem(c.Request.Context(), p, qty); err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(store.Snapshot()))
}

func (g *Gateway) updateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	store := currentSession(c).Cart
	if err := store.UpdateQuantity(c.Request.Context(), c.Param("productId"), req.Quantity); err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(store.Snapshot()))
}

func (g *Gateway) removeCartItem(c *gin.Context) {
	store := currentSession(c).Cart
	store.RemoveItem(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, newCartResponse(store.Snapshot()))
}

func (g *Gateway) clearCart(c *gin.Context) {
	store := currentSession(c).Cart
	store.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, newCartResponse(store.Snapshot()))
}

func (g *Gateway) setCartOpen(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := currentSession(c).Cart
		switch action {
		case "open":
			store.OpenCart()
		case "close":
			store.CloseCart()
		default:
			store.ToggleCart()
		}
		c.JSON(http.StatusOK, gin.H{"isOpen": store.IsOpen()})
	}
}

// Wishlist

type productRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (g *Gateway) wishlistResponse(c *gin.Context) {
	w := currentSession(c).Wishlist
	c.JSON(http.StatusOK, gin.H{"items": w.Items(), "itemCount": w.Count()})
}

func (g *Gateway) getWishlist(c *gin.Context) {
	g.wishlistResponse(c)
}

func (g *Gateway) addWishlistItem(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, ok := g.catalog.GetByID(req.ProductID)
	if !ok {
		g.writeError(c, errProductNotFound)
		return
	}
	if err := currentSession(c).Wishlist.Add(c.Request.Context(), p); err != nil {
		g.writeError(c, err)
		return
	}
	g.wishlistResponse(c)
}

func (g *Gateway) toggleWishlistItem(c *gin.Context) {
	p, ok := g.catalog.GetByID(c.Param("productId"))
	if !ok {
		g.writeError(c, errProductNotFound)
		return
	}
	saved, err := currentSession(c).Wishlist.Toggle(c.Request.Context(), p)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": p.ID, "saved": saved})
}

func (g *Gateway) removeWishlistItem(c *gin.Context) {
	currentSession(c).Wishlist.Remove(c.Request.Context(), c.Param("productId"))
	g.wishlistResponse(c)
}

func (g *Gateway) clearWishlist(c *gin.Context) {
	currentSession(c).Wishlist.Clear(c.Request.Context())
	g.wishlistResponse(c)
}

// Auth

func (g *Gateway) login(c *gin.Context) {
	var form auth.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := currentSession(c).Auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (g *Gateway) signup(c *gin.Context) {
	var form auth.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := form.Validate(); err != nil {
		g.writeError(c, err)
		return
	}
	user, err := currentSession(c).Auth.Signup(c.Request.Context(), form.Email, form.Password, form.Name)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (g *Gateway) logout(c *gin.Context) {
	currentSession(c).Auth.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) currentUser(c *gin.Context) {
	user := currentSession(c).Auth.CurrentUser()
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": user != nil, "user": user})
}

func (g *Gateway) updateProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := currentSession(c).Auth.UpdateProfile(c.Request.Context(), update)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

const defaultActivityLimit = 20

func (g *Gateway) listActivity(c *gin.Context) {
	user := currentSession(c).Auth.CurrentUser()
	if user == nil {
		g.writeError(c, auth.ErrNotAuthenticated)
		return
	}
	if g.audit == nil {
		c.JSON(http.StatusOK, gin.H{"activity": []interface{}{}, "total": 0})
		return
	}

	limit := int64(defaultActivityLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := g.audit.GetAuditLogs(c.Request.Context(), user.ID, limit)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": logs, "total": len(logs)})
}

// Checkout

type methodRequest struct {
	Method string `json:"method" binding:"required"`
}

func (g *Gateway) checkoutState(c *gin.Context, status int) {
	c.JSON(status, currentSession(c).Checkout.State())
}

func (g *Gateway) getCheckout(c *gin.Context) {
	g.checkoutState(c, http.StatusOK)
}

func (g *Gateway) startCheckout(c *gin.Context) {
	if err := currentSession(c).Checkout.Start(); err != nil {
		g.writeError(c, err)
		return
	}
	g.checkoutState(c, http.StatusOK)
}

func (g *Gateway) setInformation(c *gin.Context) {
	var info checkout.Information
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := currentSession(c).Checkout.SetInformation(info); err != nil {
		g.writeError(c, err)
		return
	}
	g.checkoutState(c, http.StatusOK)
}

func (g *Gateway) setShippingMethod(c *gin.Context) {
	var req methodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := currentSession(c).Checkout.SetShippingMethod(checkout.ShippingMethod(req.Method)); err != nil {
		g.writeError(c, err)
		return
	}
	g.checkoutState(c, http.StatusOK)
}

func (g *Gateway) setPaymentMethod(c *gin.Context) {
	var req methodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := currentSession(c).Checkout.SetPaymentMethod(checkout.PaymentMethod(req.Method)); err != nil {
		g.writeError(c, err)
		return
	}
	g.checkoutState(c, http.StatusOK)
}

func (g *Gateway) nextStep(c *gin.Context) {
	if _, err := currentSession(c).Checkout.Next(); err != nil {
		g.writeError(c, err)
		return
	}
	g.checkoutState(c, http.StatusOK)
}

func (g *Gateway) previousStep(c *gin.Context) {
	if _, err := currentSession(c).Checkout.Back(); err != nil {
		g.writeError(c, err)
		return
	}
	g.checkoutState(c, http.StatusOK)
}

func (g *Gateway) getQuote(c *gin.Context) {
	q, err := currentSession(c).Checkout.Quote()
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (g *Gateway) placeOrder(c *gin.Context) {
	ctx := c.Request.Context()
	if timeout := g.config.Checkout.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conf, err := currentSession(c).Checkout.PlaceOrder(ctx)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"confirmation": conf,
		"display":      gin.H{"total": cart.FormatUSD(conf.Total)},
	})
}

// Orders

type orderResponse struct {
	*models.Order
	LineItems []models.OrderItem      `json:"items"`
	Address   *models.ShippingAddress `json:"shippingAddress,omitempty"`
}

func newOrderResponse(o *models.Order) (orderResponse, error) {
	items, err := o.LineItems()
	if err != nil {
		return orderResponse{}, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	addr, err := o.ShippingAddress()
	if err != nil {
		return orderResponse{}, fmt.Errorf("decode address of order %s: %w", o.ID, err)
	}
	return orderResponse{Order: o, LineItems: items, Address: addr}, nil
}

func (g *Gateway) listOrders(c *gin.Context) {
	user := currentSession(c).Auth.CurrentUser()
	if user == nil {
		g.writeError(c, auth.ErrNotAuthenticated)
		return
	}
	orders, err := g.orders.ListOrdersByUser(c.Request.Context(), user.ID)
	if err != nil {
		g.writeError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp, err := newOrderResponse(o)
		if err != nil {
			g.writeError(c, err)
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"orders": out, "total": len(out)})
}

func (g *Gateway) getOrder(c *gin.Context) {
	user := currentSession(c).Auth.CurrentUser()
	if user == nil {
		g.writeError(c, auth.ErrNotAuthenticated)
		return
	}
	order, err := g.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.writeError(c, err)
		return
	}
	if order.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	g.applyLiveStatus(c.Request.Context(), order)

	resp, err := newOrderResponse(order)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// applyLiveStatus prefers the order actor's view for orders it accepted.
// Failures fall back to the stored status.
func (g *Gateway) applyLiveStatus(ctx context.Context, order *models.Order) {
	if g.tracker == nil {
		return
	}
	st, err := g.tracker.Status(ctx, order.ID)
	if err != nil {
		g.logger.Warn("Order status lookup failed", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if st.Found {
		order.Status = st.Status
	}
}
