// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mintgate/merchant-gateway/internal/auth"
	"github.com/mintgate/merchant-gateway/internal/config"
	"github.com/mintgate/merchant-gateway/internal/handler"
	"github.com/mintgate/merchant-gateway/internal/middleware"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Merchant *handler.MerchantHandler
	UID      *handler.UIDHandler
	Public   *handler.PublicHandler
	NFT      *handler.NFTHandler
}

// Register mounts all routes. Everything except the health check lives
// under /api/v1/users. The catch-all GET /:identifier must be registered
// last in spirit, but Echo matches static segments before params, so the
// named routes always win over the identifier lookup.
func Register(e *echo.Echo, h Handlers, issuer *auth.Issuer, stores auth.Stores, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/api/v1/users")

	// Session endpoints. Login and refresh are open; logout needs a live
	// access token so the principal's stored refresh token can be cleared.
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh-token", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout, middleware.Authenticate(issuer, stores))

	// Admin-gated merchant management.
	admin := g.Group("", middleware.Authenticate(issuer, stores), middleware.RequireAdmin)
	admin.POST("/merchants/register", h.Merchant.Register)
	admin.GET("/merchants", h.Merchant.List)
	admin.GET("/merchants/:id", h.Merchant.Get)
	admin.PUT("/merchants/:id", h.Merchant.Update)
	admin.DELETE("/merchants/:id", h.Merchant.Delete)
	admin.GET("/providers", h.Merchant.ListProviders)

	// Merchant-gated UID and NFT endpoints.
	merchant := g.Group("", middleware.Authenticate(issuer, stores), middleware.RequireMerchant)
	merchant.POST("/uid/generate", h.UID.Generate)
	merchant.GET("/uids", h.UID.List)
	merchant.POST("/nft/collections", h.NFT.CreateCollection)
	merchant.POST("/nft/collections/:id/templates", h.NFT.CreateTemplate)

	// Public merchant lookup by primary key or shareable code, rate limited
	// and cached since it serves anonymous checkout pages.
	var mw []echo.MiddlewareFunc
	if rdb != nil {
		rl := config.LoadRateLimitConfig()
		if rl.Enabled {
			mw = append(mw, middleware.NewTokenBucket(rl, rdb))
		}
		cc := config.LoadCacheConfig()
		if cc.Enabled {
			mw = append(mw, middleware.NewRedisCache(cc, rdb))
		}
	}
	g.GET("/:identifier", h.Public.GetByIdentifier, mw...)
}
