// Package accessapp maintains the app layer api for the access request
// workflow: submission by consumer labs, approval and rejection by studio
// owners, and API key checks on download.
package accessapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/app/sdk/mid"
	"github.com/dattastudio/studio-api/app/sdk/query"
	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/apikey"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/dattastudio/studio-api/foundation/mailer"
	"github.com/google/uuid"
)

type app struct {
	log       *logger.Logger
	accessBus *accessbus.Core
	mailer    *mailer.Mailer
}

func newApp(log *logger.Logger, accessBus *accessbus.Core, ml *mailer.Mailer) *app {
	return &app{
		log:       log,
		accessBus: accessBus,
		mailer:    ml,
	}
}

// executeUnderTransaction constructs a new app value with the core apis
// using a store transaction that was created via middleware.
func (a *app) executeUnderTransaction(ctx context.Context) (*app, error) {
	tx, err := mid.GetTran(ctx)
	if err != nil {
		return nil, err
	}

	accessBus, err := a.accessBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	napp := app{
		log:       a.log,
		accessBus: accessBus,
		mailer:    a.mailer,
	}

	return &napp, nil
}

func (a *app) submit(ctx context.Context, r *http.Request) web.Encoder {
	var app NewAccessRequest
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	datasetID, err := uuid.Parse(web.Param(r, "dataset_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, mid.ErrInvalidID)
	}

	nr, err := toBusNewAccessRequest(datasetID, app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	req, err := a.accessBus.Submit(ctx, nr)
	if err != nil {
		switch {
		case errors.Is(err, datasetbus.ErrNotFound):
			return errs.New(errs.NotFound, err)
		case errors.Is(err, datasetbus.ErrNotPublished):
			return errs.New(errs.FailedPrecondition, err)
		default:
			return errs.Newf(errs.Internal, "submit: %s", err)
		}
	}

	return toAppAccessRequest(req)
}

func (a *app) approve(ctx context.Context, r *http.Request) web.Encoder {
	a, err := a.executeUnderTransaction(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	var app ApproveAccess
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	req, err := mid.GetAccessRequest(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "access request missing in context: %s", err)
	}

	approved, err := a.accessBus.Approve(ctx, req, toBusApproveAccess(app))
	if err != nil {
		switch {
		case errors.Is(err, accessbus.ErrAlreadyProcessed):
			return errs.New(errs.Aborted, accessbus.ErrAlreadyProcessed)
		default:
			return errs.Newf(errs.Internal, "approve: requestID[%s]: %s", req.ID, err)
		}
	}

	if ds, err := mid.GetDataset(ctx); err == nil {
		a.notifyApproval(ctx, approved, ds.Name.String())
	}

	return toAppAccessRequest(approved)
}

func (a *app) reject(ctx context.Context, r *http.Request) web.Encoder {
	a, err := a.executeUnderTransaction(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	var app RejectAccess
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	req, err := mid.GetAccessRequest(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "access request missing in context: %s", err)
	}

	rejected, err := a.accessBus.Reject(ctx, req, app.Reason)
	if err != nil {
		switch {
		case errors.Is(err, accessbus.ErrAlreadyProcessed):
			return errs.New(errs.Aborted, accessbus.ErrAlreadyProcessed)
		default:
			return errs.Newf(errs.Internal, "reject: requestID[%s]: %s", req.ID, err)
		}
	}

	if ds, err := mid.GetDataset(ctx); err == nil {
		a.notifyRejection(ctx, rejected, ds.Name.String())
	}

	return toAppAccessRequest(rejected)
}

func (a *app) query(ctx context.Context, r *http.Request) web.Encoder {
	qp := parseQueryParams(r)

	pg, err := page.Parse(qp.Page, qp.Rows)
	if err != nil {
		return errs.NewFieldErrors("page", err).ToError()
	}

	filter, err := parseFilter(qp)
	if err != nil {
		return err.(*errs.Error)
	}

	orderBy, err := order.Parse(orderByFields, qp.OrderBy, accessbus.DefaultOrderBy)
	if err != nil {
		return errs.NewFieldErrors("order", err).ToError()
	}

	reqs, err := a.accessBus.Query(ctx, filter, orderBy, pg)
	if err != nil {
		return errs.Newf(errs.Internal, "query: %s", err)
	}

	total, err := a.accessBus.Count(ctx, filter)
	if err != nil {
		return errs.Newf(errs.Internal, "count: %s", err)
	}

	return query.NewResult(toAppAccessRequests(reqs), total, pg.Number(), pg.RowsPerPage())
}

func (a *app) queryByID(ctx context.Context, r *http.Request) web.Encoder {
	req, err := mid.GetAccessRequest(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "querybyid: %s", err)
	}

	return toAppAccessRequest(req)
}

// authorizeDownload validates the API key presented by a consumer lab for
// the dataset it wants to download.
func (a *app) authorizeDownload(ctx context.Context, r *http.Request) web.Encoder {
	datasetID, err := uuid.Parse(web.Param(r, "dataset_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, mid.ErrInvalidID)
	}

	key, err := a.accessBus.Authorize(ctx, datasetID, r.Header.Get("X-API-Key"))
	if err != nil {
		switch {
		case errors.Is(err, apikey.ErrExpiredKey), errors.Is(err, apikey.ErrInvalidKey):
			return errs.New(errs.PermissionDenied, err)
		default:
			return errs.Newf(errs.Internal, "authorize: datasetID[%s]: %s", datasetID, err)
		}
	}

	return toAppDownloadGrant(datasetID, key)
}

// Notification failures never fail the request. The decision is already
// committed; the owner can resend from the dashboard.

func (a *app) notifyApproval(ctx context.Context, req accessbus.AccessRequest, datasetName string) {
	if a.mailer == nil {
		return
	}

	err := a.mailer.SendApproval(ctx, req.RequesterEmail.Address, req.RequesterName.String(), datasetName, req.APIKey, req.ExpiresAt)
	if err != nil {
		a.log.Error(ctx, "sending approval email", "requestID", req.ID, "ERROR", err)
	}
}

func (a *app) notifyRejection(ctx context.Context, req accessbus.AccessRequest, datasetName string) {
	if a.mailer == nil {
		return
	}

	err := a.mailer.SendRejection(ctx, req.RequesterEmail.Address, req.RequesterName.String(), datasetName, req.Reason)
	if err != nil {
		a.log.Error(ctx, "sending rejection email", "requestID", req.ID, "ERROR", err)
	}
}
