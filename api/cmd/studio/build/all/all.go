// Package all binds all the routes into the specified app.
package all

import (
	"time"

	"github.com/dattastudio/studio-api/app/domain/accessapp"
	"github.com/dattastudio/studio-api/app/domain/authapp"
	"github.com/dattastudio/studio-api/app/domain/checkapp"
	"github.com/dattastudio/studio-api/app/domain/datasetapp"
	"github.com/dattastudio/studio-api/app/domain/licenseapp"
	"github.com/dattastudio/studio-api/app/domain/userapp"
	"github.com/dattastudio/studio-api/app/sdk/mux"
	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/domain/accessbus/stores/accessdb"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/domain/datasetbus/stores/datasetcache"
	"github.com/dattastudio/studio-api/business/domain/datasetbus/stores/datasetdb"
	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/domain/userbus"
	"github.com/dattastudio/studio-api/business/domain/userbus/stores/usercache"
	"github.com/dattastudio/studio-api/business/domain/userbus/stores/userdb"
	"github.com/dattastudio/studio-api/business/sdk/apikey"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// BuildBuses constructs the core business APIs backed by the database and
// caches. The same values serve both the web handlers and the background
// pruner.
func BuildBuses(log *logger.Logger, db *sqlx.DB, signer *apikey.Signer) mux.BusConfig {
	licenseBus := licensebus.NewCore()
	userBus := userbus.NewCore(usercache.NewStore(log, userdb.NewStore(log, db), time.Minute*5))
	datasetBus := datasetbus.NewCore(licenseBus, datasetcache.NewStore(log, datasetdb.NewStore(log, db), time.Minute))
	accessBus := accessbus.NewCore(signer, datasetBus, accessdb.NewStore(log, db))

	return mux.BusConfig{
		UserBus:    userBus,
		DatasetBus: datasetBus,
		AccessBus:  accessBus,
		LicenseBus: licenseBus,
	}
}

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) {
	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	authapp.Routes(app, authapp.Config{
		Auth:    cfg.Auth,
		UserBus: cfg.BusConfig.UserBus,
	})

	userapp.Routes(app, userapp.Config{
		Log:     cfg.Log,
		Auth:    cfg.Auth,
		UserBus: cfg.BusConfig.UserBus,
	})

	licenseapp.Routes(app, licenseapp.Config{
		LicenseBus: cfg.BusConfig.LicenseBus,
	})

	datasetapp.Routes(app, datasetapp.Config{
		Log:        cfg.Log,
		Auth:       cfg.Auth,
		DatasetBus: cfg.BusConfig.DatasetBus,
	})

	accessapp.Routes(app, accessapp.Config{
		Log:        cfg.Log,
		DB:         cfg.DB,
		Auth:       cfg.Auth,
		Mailer:     cfg.Mailer,
		AccessBus:  cfg.BusConfig.AccessBus,
		DatasetBus: cfg.BusConfig.DatasetBus,
	})
}
