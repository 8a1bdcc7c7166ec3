// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/confera/registration-api/internal/config"
	"github.com/confera/registration-api/internal/handler"
	"github.com/confera/registration-api/internal/middleware"
	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/service"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Enrollments  *handler.EnrollmentHandler
	Activities   *handler.ActivityHandler
	Applications *handler.ApplicationHandler
	Hotels       *handler.HotelHandler
	Bookings     *handler.BookingHandler
}

// Register mounts every route. Layout:
//
//	GET  /healthz                    liveness, unauthenticated
//	/v1/auth/*                       register, login, refresh, logout
//	/v1/*                            JWT-protected participant surface
//	/v1/admin/*                      JWT + ADMIN role
//
// The Redis-backed response cache wraps the read-only browse endpoints;
// the token-bucket limiter wraps the whole protected surface.  Browse
// routes are eligibility-gated in middleware, ordered ahead of the
// cache, so a warm cache entry can never leak a gated payload to an
// ineligible user.
func Register(e *echo.Echo, h Handlers, cfg config.Config, eligibility *service.Eligibility, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	gateOnSite := middleware.RequireEligibility(eligibility, false)
	gateHotel := middleware.RequireEligibility(eligibility, true)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))
	v1.Use(middleware.RequireRole(model.RoleParticipant, model.RoleAdmin))
	v1.Use(limiter)

	v1.GET("/me", h.Auth.Me)

	v1.GET("/enrollment", h.Enrollments.Get)
	v1.PUT("/enrollment", h.Enrollments.Upsert)

	// Read-only schedule and hotel browsing.  Gate first, cache second:
	// route middleware runs in registration order, so the eligibility
	// check fires on every request, cache hit or not.
	v1.GET("/activities", h.Activities.GetActivities, gateOnSite, cache)
	v1.GET("/activities/:date", h.Activities.GetActivitiesByDate, gateOnSite, cache)
	v1.GET("/hotels", h.Hotels.GetHotels, gateHotel, cache)
	v1.GET("/hotels/rooms", h.Hotels.GetHotelsWithRoomInfo, gateHotel, cache)
	v1.GET("/hotels/:hotelId/rooms", h.Hotels.GetHotelRooms, gateHotel, cache)

	// Activity admissions.
	v1.GET("/applications", h.Applications.List)
	v1.GET("/applications/:activityId", h.Applications.Get)
	v1.POST("/applications/:activityId", h.Applications.Apply)
	v1.DELETE("/applications/:activityId", h.Applications.Cancel)

	// Room bookings.
	v1.GET("/bookings/me", h.Bookings.Get)
	v1.PUT("/bookings/:bookingId", h.Bookings.Rebook)
	v1.GET("/rooms/:roomId/bookings/count", h.Bookings.Count)
	v1.POST("/rooms/:roomId/bookings", h.Bookings.Book)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.Use(limiter)
	admin.GET("/rooms/:roomId/bookings", h.Bookings.ListByRoom)
}
