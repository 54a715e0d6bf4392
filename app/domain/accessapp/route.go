package accessapp

import (
	"net/http"

	"github.com/dattastudio/studio-api/app/sdk/auth"
	"github.com/dattastudio/studio-api/app/sdk/mid"
	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/dattastudio/studio-api/business/types/role"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/dattastudio/studio-api/foundation/mailer"
	"github.com/jmoiron/sqlx"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log        *logger.Logger
	DB         *sqlx.DB
	Auth       *auth.Auth
	Mailer     *mailer.Mailer
	AccessBus  *accessbus.Core
	DatasetBus *datasetbus.Core
}

// Routes adds specific routes for this group. Submission and the download
// check are consumer facing and carry no dashboard auth; everything else
// requires an owner or admin.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	ruleOwner := mid.Authorize(cfg.Auth, role.Admin, role.Owner)
	ruleAuthorizeRequest := mid.AuthorizeAccessRequest(cfg.Auth, cfg.AccessBus, cfg.DatasetBus)
	tran := mid.BeginCommitRollback(cfg.Log, sqldb.NewBeginner(cfg.DB))

	api := newApp(cfg.Log, cfg.AccessBus, cfg.Mailer)

	app.HandlerFunc(http.MethodPost, version, "/datasets/{dataset_id}/requests", api.submit)
	app.HandlerFunc(http.MethodGet, version, "/datasets/{dataset_id}/download", api.authorizeDownload)

	app.HandlerFunc(http.MethodGet, version, "/requests", api.query, authen, ruleOwner)
	app.HandlerFunc(http.MethodGet, version, "/requests/{request_id}", api.queryByID, authen, ruleOwner, ruleAuthorizeRequest)
	app.HandlerFunc(http.MethodPost, version, "/requests/{request_id}/approve", api.approve, authen, ruleOwner, ruleAuthorizeRequest, tran)
	app.HandlerFunc(http.MethodPost, version, "/requests/{request_id}/reject", api.reject, authen, ruleOwner, ruleAuthorizeRequest, tran)
}
