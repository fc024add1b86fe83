package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wisharea/storefront/pkg/actor"
	"github.com/wisharea/storefront/pkg/catalog"
	"github.com/wisharea/storefront/pkg/config"
	"github.com/wisharea/storefront/pkg/repository"
	"github.com/wisharea/storefront/pkg/session"
	"go.uber.org/zap"
)

const sessionKey = "session"

// OrderTracker reports the live status of orders accepted in this process.
type OrderTracker interface {
	Status(ctx context.Context, orderID string) (*actor.OrderStatus, error)
}

// Backends are the collaborators the HTTP surface reads and writes.
// Tracker and Audit are optional.
type Backends struct {
	Catalog  *catalog.Catalog
	Sessions *session.Manager
	Orders   repository.OrderRepository
	Tracker  OrderTracker
	Audit    repository.AuditReader
}

type Gateway struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
	catalog  *catalog.Catalog
	sessions *session.Manager
	orders   repository.OrderRepository
	tracker  OrderTracker
	audit    repository.AuditReader
}

func NewGateway(cfg *config.Config, logger *zap.Logger, b Backends) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	origins := cfg.Gateway.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	return &Gateway{
		config:   cfg,
		logger:   logger,
		router:   router,
		catalog:  b.Catalog,
		sessions: b.Sessions,
		orders:   b.Orders,
		tracker:  b.Tracker,
		audit:    b.Audit,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := g.router.Group("/api/v1")
	{
		v1.POST("/sessions", g.createSession)

		v1.GET("/products", g.listProducts)
		v1.GET("/products/:id", g.getProduct)
		v1.GET("/categories", g.listCategories)
		v1.GET("/categories/:slug/products", g.listCategoryProducts)

		authed := v1.Group("", g.sessionMiddleware())

		cart := authed.Group("/cart")
		{
			cart.GET("", g.getCart)
			cart.DELETE("", g.clearCart)
			cart.POST("/items", g.addCartItem)
			cart.PATCH("/items/:productId", g.updateCartItem)
			cart.DELETE("/items/:productId", g.removeCartItem)
			cart.POST("/open", g.setCartOpen("open"))
			cart.POST("/close", g.setCartOpen("close"))
			cart.POST("/toggle", g.setCartOpen("toggle"))
		}

		wishlist := authed.Group("/wishlist")
		{
			wishlist.GET("", g.getWishlist)
			wishlist.DELETE("", g.clearWishlist)
			wishlist.POST("/items", g.addWishlistItem)
			wishlist.POST("/items/:productId/toggle", g.toggleWishlistItem)
			wishlist.DELETE("/items/:productId", g.removeWishlistItem)
		}

		auth := authed.Group("/auth")
		{
			auth.POST("/login", g.login)
			auth.POST("/signup", g.signup)
			auth.POST("/logout", g.logout)
			auth.GET("/me", g.currentUser)
			auth.PATCH("/me", g.updateProfile)
			auth.GET("/me/activity", g.listActivity)
		}

		checkout := authed.Group("/checkout")
		{
			checkout.GET("", g.getCheckout)
			checkout.POST("/start", g.startCheckout)
			checkout.PUT("/information", g.setInformation)
			checkout.PUT("/shipping", g.setShippingMethod)
			checkout.PUT("/payment", g.setPaymentMethod)
			checkout.POST("/next", g.nextStep)
			checkout.POST("/back", g.previousStep)
			checkout.GET("/quote", g.getQuote)
			checkout.POST("/orders", g.placeOrder)
		}

		orders := authed.Group("/orders")
		{
			orders.GET("", g.listOrders)
			orders.GET("/:id", g.getOrder)
		}
	}
}

// Handler exposes the router, mainly for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := g.config.Gateway.Addr()
	g.server = &http.Server{Addr: addr, Handler: g.router}
	g.logger.Info("Gateway starting", zap.String("address", addr))

	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

func (g *Gateway) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		s, err := g.sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(sessionKey, s)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
