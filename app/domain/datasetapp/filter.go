package datasetapp

import (
	"net/http"

	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/google/uuid"
)

type queryParams struct {
	Page    string
	Rows    string
	OrderBy string
	ID      string
	OwnerID string
	Name    string
	License string
	Status  string
}

func parseQueryParams(r *http.Request) queryParams {
	values := r.URL.Query()

	filter := queryParams{
		Page:    values.Get("page"),
		Rows:    values.Get("rows"),
		OrderBy: values.Get("orderBy"),
		ID:      values.Get("dataset_id"),
		OwnerID: values.Get("owner_id"),
		Name:    values.Get("name"),
		License: values.Get("license"),
		Status:  values.Get("status"),
	}

	return filter
}

func parseFilter(qp queryParams) (datasetbus.QueryFilter, error) {
	var fieldErrors errs.FieldErrors
	var filter datasetbus.QueryFilter

	if qp.ID != "" {
		id, err := uuid.Parse(qp.ID)
		switch err {
		case nil:
			filter.ID = &id
		default:
			fieldErrors.Add("dataset_id", err)
		}
	}

	if qp.OwnerID != "" {
		id, err := uuid.Parse(qp.OwnerID)
		switch err {
		case nil:
			filter.OwnerID = &id
		default:
			fieldErrors.Add("owner_id", err)
		}
	}

	if qp.Name != "" {
		nme, err := name.Parse(qp.Name)
		switch err {
		case nil:
			filter.Name = &nme
		default:
			fieldErrors.Add("name", err)
		}
	}

	if qp.License != "" {
		lic, err := license.Parse(qp.License)
		switch err {
		case nil:
			filter.License = &lic
		default:
			fieldErrors.Add("license", err)
		}
	}

	if qp.Status != "" {
		status, err := datasetstatus.Parse(qp.Status)
		switch err {
		case nil:
			filter.Status = &status
		default:
			fieldErrors.Add("status", err)
		}
	}

	if fieldErrors != nil {
		return datasetbus.QueryFilter{}, fieldErrors.ToError()
	}

	return filter, nil
}
