package accessdb

import (
	"fmt"

	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/sdk/order"
)

var orderByFields = map[string]string{
	accessbus.OrderByID:        "ar.request_id",
	accessbus.OrderByDataset:   "ar.dataset_id",
	accessbus.OrderByStatus:    "ar.status",
	accessbus.OrderByCreatedAt: "ar.created_at",
}

func orderByClause(orderBy order.By) (string, error) {
	by, exists := orderByFields[orderBy.Field]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Field)
	}

	return " ORDER BY " + by + " " + orderBy.Direction, nil
}
