package handler

import (
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db     *gorm.DB
	blogs  *service.BlogService
	users  *service.UserService
	tokens *service.TokenService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, tokens *service.TokenService) *API {
	return &API{
		db:     gdb,
		blogs:  service.NewBlogService(gdb),
		users:  service.NewUserService(gdb),
		tokens: tokens,
	}
}

// DB exposes the underlying gorm instance, mainly for tests.
func (a *API) DB() *gorm.DB {
	return a.db
}
