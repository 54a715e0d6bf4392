package datasetapp

import (
	"net/http"

	"github.com/dattastudio/studio-api/app/sdk/auth"
	"github.com/dattastudio/studio-api/app/sdk/mid"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/dattastudio/studio-api/business/types/role"
	"github.com/dattastudio/studio-api/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log        *logger.Logger
	Auth       *auth.Auth
	DatasetBus *datasetbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	ruleOwner := mid.Authorize(cfg.Auth, role.Admin, role.Owner)
	ruleAuthorizeDataset := mid.AuthorizeDataset(cfg.Auth, cfg.DatasetBus)

	api := newApp(cfg.DatasetBus)

	app.HandlerFunc(http.MethodGet, version, "/datasets", api.query, authen)
	app.HandlerFunc(http.MethodGet, version, "/datasets/{dataset_id}", api.queryByID, authen, ruleAuthorizeDataset)
	app.HandlerFunc(http.MethodPost, version, "/datasets", api.create, authen, ruleOwner)
	app.HandlerFunc(http.MethodPut, version, "/datasets/{dataset_id}", api.update, authen, ruleOwner, ruleAuthorizeDataset)
	app.HandlerFunc(http.MethodPut, version, "/datasets/{dataset_id}/publish", api.publish, authen, ruleOwner, ruleAuthorizeDataset)
	app.HandlerFunc(http.MethodDelete, version, "/datasets/{dataset_id}", api.delete, authen, ruleOwner, ruleAuthorizeDataset)
}
