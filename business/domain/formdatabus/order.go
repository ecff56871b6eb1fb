package formdatabus

import "github.com/councl/backend/business/sdk/order"

// DefaultOrderBy represents the default ordering of query results.
var DefaultOrderBy = order.NewBy(OrderByCreatedAt, order.ASC)

// Set of fields that the results can be ordered by.
const (
	OrderByID        = "data_id"
	OrderByCreatedAt = "created_at"
)
