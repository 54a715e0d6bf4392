// Package licenseapp exposes the license tier catalog to the dashboard.
package licenseapp

import (
	"context"
	"net/http"

	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/sdk/web"
)

type app struct {
	licenseBus *licensebus.Core
}

func newApp(licenseBus *licensebus.Core) *app {
	return &app{
		licenseBus: licenseBus,
	}
}

func (a *app) query(ctx context.Context, r *http.Request) web.Encoder {
	return toAppLicenses(a.licenseBus.Catalog())
}
