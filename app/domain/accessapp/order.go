package accessapp

import "github.com/dattastudio/studio-api/business/domain/accessbus"

var orderByFields = map[string]string{
	"request_id":   accessbus.OrderByID,
	"dataset_id":   accessbus.OrderByDataset,
	"status":       accessbus.OrderByStatus,
	"created_date": accessbus.OrderByCreatedAt,
}
