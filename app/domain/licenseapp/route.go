package licenseapp

import (
	"net/http"

	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	LicenseBus *licensebus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	api := newApp(cfg.LicenseBus)

	app.HandlerFunc(http.MethodGet, version, "/licenses", api.query)
}
