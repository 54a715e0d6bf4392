package accessdb

import (
	"bytes"
	"strings"

	"github.com/dattastudio/studio-api/business/domain/accessbus"
)

func applyFilter(filter accessbus.QueryFilter, data map[string]any, buf *bytes.Buffer) {
	var wc []string

	if filter.ID != nil {
		data["request_id"] = *filter.ID
		wc = append(wc, "ar.request_id = :request_id")
	}

	if filter.DatasetID != nil {
		data["dataset_id"] = *filter.DatasetID
		wc = append(wc, "ar.dataset_id = :dataset_id")
	}

	if filter.ConnectionID != nil {
		data["connection_id"] = *filter.ConnectionID
		wc = append(wc, "ar.connection_id = :connection_id")
	}

	if filter.RequesterEmail != nil {
		data["requester_email"] = filter.RequesterEmail.Address
		wc = append(wc, "ar.requester_email = :requester_email")
	}

	if filter.Status != nil {
		data["status"] = filter.Status.String()
		wc = append(wc, "ar.status = :status")
	}

	if filter.StartCreatedAt != nil {
		data["start_created_at"] = filter.StartCreatedAt.UTC()
		wc = append(wc, "ar.created_at >= :start_created_at")
	}

	if filter.EndCreatedAt != nil {
		data["end_created_at"] = filter.EndCreatedAt.UTC()
		wc = append(wc, "ar.created_at <= :end_created_at")
	}

	if len(wc) > 0 {
		buf.WriteString(" WHERE ")
		buf.WriteString(strings.Join(wc, " AND "))
	}
}
