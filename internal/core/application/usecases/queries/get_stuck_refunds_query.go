package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetStuckRefundsQueryIsNotConstructed = errors.New(
	"GetStuckRefundsQuery must be created via NewGetStuckRefundsQuery constructor",
)

// GetStuckRefundsQuery lists refunds that were handed to the gateway but whose
// result was never recorded. The gateway may or may not have paid them out,
// so they are reported for manual review instead of being retried.
type GetStuckRefundsQuery struct {
	limit           int
	initiatedBefore time.Time
	guard           guard.ConstructorGuard
}

func NewGetStuckRefundsQuery(limit int, initiatedBefore time.Time) (GetStuckRefundsQuery, error) {
	var errList []error
	if limit <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded"))
	}
	if initiatedBefore.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("initiated before"))
	}
	if err := errors.Join(errList...); err != nil {
		return GetStuckRefundsQuery{}, err
	}

	return GetStuckRefundsQuery{
		limit:           limit,
		initiatedBefore: initiatedBefore.UTC(),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (q GetStuckRefundsQuery) Validate() error {
	return q.guard.Validate(ErrGetStuckRefundsQueryIsNotConstructed)
}

func (q GetStuckRefundsQuery) Limit() int                 { return q.limit }
func (q GetStuckRefundsQuery) InitiatedBefore() time.Time { return q.initiatedBefore }

type GetStuckRefundsQueryResponse struct {
	OrderID     kernel.UUID  `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	Amount      kernel.Money `json:"amount"`
	Attempts    int          `json:"attempts"`
	InitiatedAt time.Time    `json:"initiated_at"`
}
