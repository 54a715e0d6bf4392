package datasetbus

import "github.com/dattastudio/studio-api/business/sdk/order"

// DefaultOrderBy represents the default way we sort.
var DefaultOrderBy = order.NewBy(OrderByID, order.ASC)

// Set of fields that the results can be ordered by.
const (
	OrderByID        = "a"
	OrderByName      = "b"
	OrderByLicense   = "c"
	OrderByStatus    = "d"
	OrderByCreatedAt = "e"
)
