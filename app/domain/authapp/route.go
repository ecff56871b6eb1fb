package authapp

import (
	"net/http"

	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/business/domain/userbus"
	"github.com/councl/backend/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth      *auth.Auth
	UserBus   *userbus.Core
	ActiveKID string
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	api := newApp(cfg.Auth, cfg.UserBus, cfg.ActiveKID)

	app.HandlerFunc(http.MethodPost, version, "/auth/login", api.login)
	app.HandlerFunc(http.MethodPost, version, "/auth/signup", api.signup)
}
