package formdataapp

import (
	"net/http"

	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/app/sdk/mid"
	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/sdk/web"
	"github.com/councl/backend/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log         *logger.Logger
	Auth        *auth.Auth
	FormBus     *formbus.Core
	FormDataBus *formdatabus.Core
}

// Routes adds specific routes for this group. Identity is optional on every
// route; the privilege rules of each form decide what an anonymous
// requester may do.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	identify := mid.Identify(cfg.Log, cfg.Auth)

	api := newApp(cfg.FormBus, cfg.FormDataBus)

	app.HandlerFunc(http.MethodGet, version, "/forms/{simple_id}", api.read, identify)
	app.HandlerFunc(http.MethodPost, version, "/forms/{simple_id}", api.submit, identify)
	app.HandlerFunc(http.MethodPut, version, "/forms/{simple_id}/data/{data_id}", api.update, identify)
	app.HandlerFunc(http.MethodDelete, version, "/forms/{simple_id}/data/{data_id}", api.delete, identify)
}
