package accessbus

import "github.com/dattastudio/studio-api/business/sdk/order"

// DefaultOrderBy represents the default way we sort.
var DefaultOrderBy = order.NewBy(OrderByCreatedAt, order.DESC)

// Set of fields that the results can be ordered by.
const (
	OrderByID        = "a"
	OrderByDataset   = "b"
	OrderByStatus    = "c"
	OrderByCreatedAt = "d"
)
