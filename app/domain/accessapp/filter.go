package accessapp

import (
	"net/http"
	"net/mail"

	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/types/requeststatus"
	"github.com/google/uuid"
)

type queryParams struct {
	Page           string
	Rows           string
	OrderBy        string
	ID             string
	DatasetID      string
	RequesterEmail string
	Status         string
}

func parseQueryParams(r *http.Request) queryParams {
	values := r.URL.Query()

	filter := queryParams{
		Page:           values.Get("page"),
		Rows:           values.Get("rows"),
		OrderBy:        values.Get("orderBy"),
		ID:             values.Get("request_id"),
		DatasetID:      values.Get("dataset_id"),
		RequesterEmail: values.Get("requester_email"),
		Status:         values.Get("status"),
	}

	return filter
}

func parseFilter(qp queryParams) (accessbus.QueryFilter, error) {
	var fieldErrors errs.FieldErrors
	var filter accessbus.QueryFilter

	if qp.ID != "" {
		id, err := uuid.Parse(qp.ID)
		switch err {
		case nil:
			filter.ID = &id
		default:
			fieldErrors.Add("request_id", err)
		}
	}

	if qp.DatasetID != "" {
		id, err := uuid.Parse(qp.DatasetID)
		switch err {
		case nil:
			filter.DatasetID = &id
		default:
			fieldErrors.Add("dataset_id", err)
		}
	}

	if qp.RequesterEmail != "" {
		addr, err := mail.ParseAddress(qp.RequesterEmail)
		switch err {
		case nil:
			filter.RequesterEmail = addr
		default:
			fieldErrors.Add("requester_email", err)
		}
	}

	if qp.Status != "" {
		status, err := requeststatus.Parse(qp.Status)
		switch err {
		case nil:
			filter.Status = &status
		default:
			fieldErrors.Add("status", err)
		}
	}

	if fieldErrors != nil {
		return accessbus.QueryFilter{}, fieldErrors.ToError()
	}

	return filter, nil
}
