package datasetdb

import (
	"fmt"

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/order"
)

var orderByFields = map[string]string{
	datasetbus.OrderByID:        "d.dataset_id",
	datasetbus.OrderByName:      "d.name",
	datasetbus.OrderByLicense:   "d.license",
	datasetbus.OrderByStatus:    "d.status",
	datasetbus.OrderByCreatedAt: "d.created_at",
}

func orderByClause(orderBy order.By) (string, error) {
	by, exists := orderByFields[orderBy.Field]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Field)
	}

	return " ORDER BY " + by + " " + orderBy.Direction, nil
}
