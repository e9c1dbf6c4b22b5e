// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/burgergo/loyalty-service/internal/config"
	"github.com/burgergo/loyalty-service/internal/handler"
	"github.com/burgergo/loyalty-service/internal/middleware"
)

// RegisterPublic registers the unauthenticated routes: health probe,
// marketing content and the kiosk stamp-card flow. The rate limiter
// covers everything public; the response cache only wraps the static
// content endpoints so lookups always hit the store.
func RegisterPublic(e *echo.Echo, k *handler.KioskHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	pub := e.Group("/v1", limiter)
	// Marketing content, cacheable.
	pub.GET("/menu", handler.Menu, cached)
	pub.GET("/store", handler.StoreInfo, cached)
	// Kiosk flow.
	pub.GET("/lookup", k.ResolveSuffix)
	pub.POST("/register", k.Register)
	pub.GET("/customers/:id/card", k.Card)
	pub.GET("/recent", k.Recent)
}

// RegisterAuth registers the staff session endpoints. Login, refresh and
// logout live under /v1/auth without a JWT; /v1/me probes an existing
// session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(handler.RoleStaff))
	auth.GET("/me", a.Me)
}

// RegisterStaff registers the employee panel routes behind JWT + STAFF
// role enforcement.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group("/v1/staff")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(handler.RoleStaff))

	g.GET("/search", s.Search)
	g.POST("/customers/:id/stamps", s.AddStamp)
	g.POST("/customers/:id/redeem", s.Redeem)
	g.POST("/customers/:id/purchase", s.Purchase)
	g.GET("/customers/:id/activity", s.ListActivity)
}
