// Package datasetapp maintains the app layer api for the dataset domain.
package datasetapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/app/sdk/mid"
	"github.com/dattastudio/studio-api/app/sdk/query"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
)

type app struct {
	datasetBus *datasetbus.Core
}

func newApp(datasetBus *datasetbus.Core) *app {
	return &app{
		datasetBus: datasetBus,
	}
}

func (a *app) create(ctx context.Context, r *http.Request) web.Encoder {
	var app NewDataset
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "userID missing in context: %s", err)
	}

	nd, err := toBusNewDataset(userID, app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ds, err := a.datasetBus.Create(ctx, nd)
	if err != nil {
		var violation *licensebus.LimitViolation
		switch {
		case errors.As(err, &violation):
			return errs.New(errs.FailedPrecondition, violation)
		case errors.Is(err, licensebus.ErrUnknownKind):
			return errs.New(errs.InvalidArgument, err)
		default:
			return errs.Newf(errs.Internal, "create: ds[%+v]: %s", app, err)
		}
	}

	return toAppDataset(ds)
}

func (a *app) update(ctx context.Context, r *http.Request) web.Encoder {
	var app UpdateDataset
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ud, err := toBusUpdateDataset(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ds, err := mid.GetDataset(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "dataset missing in context: %s", err)
	}

	updDs, err := a.datasetBus.Update(ctx, ds, ud)
	if err != nil {
		var violation *licensebus.LimitViolation
		switch {
		case errors.As(err, &violation):
			return errs.New(errs.FailedPrecondition, violation)
		case errors.Is(err, licensebus.ErrUnknownKind):
			return errs.New(errs.InvalidArgument, err)
		default:
			return errs.Newf(errs.Internal, "update: datasetID[%s]: %s", ds.ID, err)
		}
	}

	return toAppDataset(updDs)
}

// publish flips a draft dataset to published so consumer labs can find it
// and request access.
func (a *app) publish(ctx context.Context, r *http.Request) web.Encoder {
	ds, err := mid.GetDataset(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "dataset missing in context: %s", err)
	}

	status := datasetstatus.Published

	updDs, err := a.datasetBus.Update(ctx, ds, datasetbus.UpdateDataset{Status: &status})
	if err != nil {
		return errs.Newf(errs.Internal, "publish: datasetID[%s]: %s", ds.ID, err)
	}

	return toAppDataset(updDs)
}

func (a *app) delete(ctx context.Context, r *http.Request) web.Encoder {
	ds, err := mid.GetDataset(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "dataset missing in context: %s", err)
	}

	if err := a.datasetBus.Delete(ctx, ds); err != nil {
		return errs.Newf(errs.Internal, "delete: datasetID[%s]: %s", ds.ID, err)
	}

	return nil
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

	orderBy, err := order.Parse(orderByFields, qp.OrderBy, datasetbus.DefaultOrderBy)
	if err != nil {
		return errs.NewFieldErrors("order", err).ToError()
	}

	dss, err := a.datasetBus.Query(ctx, filter, orderBy, pg)
	if err != nil {
		return errs.Newf(errs.Internal, "query: %s", err)
	}

	total, err := a.datasetBus.Count(ctx, filter)
	if err != nil {
		return errs.Newf(errs.Internal, "count: %s", err)
	}

	return query.NewResult(toAppDatasets(dss), total, pg.Number(), pg.RowsPerPage())
}

func (a *app) queryByID(ctx context.Context, r *http.Request) web.Encoder {
	ds, err := mid.GetDataset(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "querybyid: %s", err)
	}

	return toAppDataset(ds)
}
