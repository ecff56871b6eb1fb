package all

import (
	"time"

	"github.com/councl/backend/app/domain/authapp"
	"github.com/councl/backend/app/domain/formapp"
	"github.com/councl/backend/app/domain/formdataapp"
	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/app/sdk/mux"
	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/domain/formbus/stores/formcache"
	"github.com/councl/backend/business/domain/formbus/stores/formdb"
	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/domain/formdatabus/stores/formdatadb"
	"github.com/councl/backend/business/domain/userbus"
	"github.com/councl/backend/business/domain/userbus/stores/usercache"
	"github.com/councl/backend/business/domain/userbus/stores/userdb"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) {
	userBus := userbus.NewCore(usercache.NewStore(cfg.Log, userdb.NewStore(cfg.Log, cfg.DB), time.Minute*5))
	formBus := formbus.NewCore(formcache.NewStore(cfg.Log, formdb.NewStore(cfg.Log, cfg.DB), time.Minute*5))
	formDataBus := formdatabus.NewCore(cfg.Log, formdatadb.NewStore(cfg.Log, cfg.DB))

	authClient := auth.New(auth.Config{
		Log:       cfg.Log,
		UserBus:   userBus,
		KeyLookup: cfg.AuthConfig.KeyLookup,
		Issuer:    cfg.AuthConfig.Issuer,
	})

	authapp.Routes(app, authapp.Config{
		Auth:      authClient,
		UserBus:   userBus,
		ActiveKID: cfg.AuthConfig.ActiveKID,
	})

	formapp.Routes(app, formapp.Config{
		Log:     cfg.Log,
		DB:      sqldb.NewBeginner(cfg.DB),
		Auth:    authClient,
		FormBus: formBus,
	})

	formdataapp.Routes(app, formdataapp.Config{
		Log:         cfg.Log,
		Auth:        authClient,
		FormBus:     formBus,
		FormDataBus: formDataBus,
	})
}
