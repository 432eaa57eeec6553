// Package router wires the HTTP surface: the public health check, the
// rate-limited auth routes and the guarded resource routes under /api/v1.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-feed-api/internal/handler"
	"github.com/iliyamo/social-feed-api/internal/middleware"
	"github.com/iliyamo/social-feed-api/internal/model"
	"github.com/iliyamo/social-feed-api/internal/repository"
)

// Deps collects everything route registration needs.
type Deps struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Posts    *handler.PostHandler
	Comments *handler.CommentHandler

	UserRepo  *repository.UserRepo
	TokenRepo *repository.TokenRepo

	RateLimit echo.MiddlewareFunc
}

// Register mounts all routes on the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api/v1")
	guard := middleware.BearerAuth(d.UserRepo, d.TokenRepo)

	// Register and login are the unauthenticated surface; they carry the
	// rate limiter so credential stuffing burns through a small bucket.
	auth := api.Group("/auth")
	if d.RateLimit != nil {
		auth.Use(d.RateLimit)
	}
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	// Logout needs the presented token resolved, so the guard runs first.
	auth.POST("/logout", d.Auth.Logout, guard)

	protected := api.Group("", guard)

	protected.GET("/users/me", d.Users.Me)
	protected.GET("/users", d.Users.Index)
	protected.GET("/users/:id", d.Users.Show, middleware.ValidateNumericID)
	protected.DELETE("/users/:id", d.Users.Delete,
		middleware.ValidateNumericID, middleware.RequireRole(model.RoleAdmin))

	protected.GET("/posts", d.Posts.Index)
	protected.POST("/posts", d.Posts.Store)
	protected.GET("/posts/:id", d.Posts.Show, middleware.ValidateNumericID)
	protected.PUT("/posts/:id", d.Posts.Update, middleware.ValidateNumericID)
	protected.DELETE("/posts/:id", d.Posts.Destroy, middleware.ValidateNumericID)
	protected.POST("/posts/:id/like", d.Posts.Like, middleware.ValidateNumericID)

	protected.POST("/posts/:id/comments", d.Comments.Store, middleware.ValidateNumericID)
	protected.GET("/posts/:id/comments", d.Comments.Index, middleware.ValidateNumericID)
	protected.POST("/comments/:id/like", d.Comments.Like, middleware.ValidateNumericID)
}
