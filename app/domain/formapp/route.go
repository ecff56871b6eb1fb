package formapp

import (
	"net/http"

	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/app/sdk/mid"
	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/sdk/web"
	"github.com/councl/backend/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *logger.Logger
	DB      sqldb.Beginner
	Auth    *auth.Auth
	FormBus *formbus.Core
}

// Routes adds specific routes for this group. Form administration is
// restricted to system admins.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	admin := mid.AuthorizeAdmin()
	tran := mid.BeginCommitRollback(cfg.Log, cfg.DB)

	api := newApp(cfg.FormBus)

	app.HandlerFunc(http.MethodGet, version, "/admin/forms/{form_id}", api.queryByID, authen, admin)
	app.HandlerFunc(http.MethodPost, version, "/admin/forms", api.create, authen, admin, tran)
	app.HandlerFunc(http.MethodPut, version, "/admin/forms/{form_id}", api.update, authen, admin, tran)
	app.HandlerFunc(http.MethodDelete, version, "/admin/forms/{form_id}", api.delete, authen, admin, tran)
}
