package datasetapp

import "github.com/dattastudio/studio-api/business/domain/datasetbus"

var orderByFields = map[string]string{
	"dataset_id":   datasetbus.OrderByID,
	"name":         datasetbus.OrderByName,
	"license":      datasetbus.OrderByLicense,
	"status":       datasetbus.OrderByStatus,
	"created_date": datasetbus.OrderByCreatedAt,
}
