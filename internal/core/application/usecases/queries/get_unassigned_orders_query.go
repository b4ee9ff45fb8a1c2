package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetUnassignedOrdersQueryIsNotConstructed = errors.New(
	"GetUnassignedOrdersQuery must be created via NewGetUnassignedOrdersQuery constructor",
)

// GetUnassignedOrdersQuery lists delivery orders the restaurant has accepted
// that still have no partner. It feeds the re-dispatch job.
//
// Example:
//
//	query, err := NewGetUnassignedOrdersQuery(100)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetUnassignedOrdersQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewGetUnassignedOrdersQuery caps the result at limit rows, oldest first.
func NewGetUnassignedOrdersQuery(limit int) (GetUnassignedOrdersQuery, error) {
	if limit <= 0 {
		return GetUnassignedOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return GetUnassignedOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUnassignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnassignedOrdersQueryIsNotConstructed)
}

func (q GetUnassignedOrdersQuery) Limit() int { return q.limit }

// GetUnassignedOrdersQueryResponse is one order waiting for a partner.
type GetUnassignedOrdersQueryResponse struct {
	ID           kernel.UUID `json:"id"`
	Number       string      `json:"number"`
	RestaurantID kernel.UUID `json:"restaurant_id"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}
