package datasetdb

import (
	"bytes"
	"strings"

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
)

func applyFilter(filter datasetbus.QueryFilter, data map[string]any, buf *bytes.Buffer) {
	var wc []string

	if filter.ID != nil {
		data["dataset_id"] = *filter.ID
		wc = append(wc, "d.dataset_id = :dataset_id")
	}

	if filter.OwnerID != nil {
		data["owner_id"] = *filter.OwnerID
		wc = append(wc, "d.owner_id = :owner_id")
	}

	if filter.Name != nil {
		data["name"] = "%" + filter.Name.String() + "%"
		wc = append(wc, "d.name LIKE :name")
	}

	if filter.License != nil {
		data["license"] = filter.License.String()
		wc = append(wc, "d.license = :license")
	}

	if filter.Status != nil {
		data["status"] = filter.Status.String()
		wc = append(wc, "d.status = :status")
	}

	if filter.StartCreatedAt != nil {
		data["start_created_at"] = filter.StartCreatedAt.UTC()
		wc = append(wc, "d.created_at >= :start_created_at")
	}

	if filter.EndCreatedAt != nil {
		data["end_created_at"] = filter.EndCreatedAt.UTC()
		wc = append(wc, "d.created_at <= :end_created_at")
	}

	if len(wc) > 0 {
		buf.WriteString(" WHERE ")
		buf.WriteString(strings.Join(wc, " AND "))
	}
}
