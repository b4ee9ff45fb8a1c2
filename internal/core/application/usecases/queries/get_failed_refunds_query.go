package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetFailedRefundsQueryIsNotConstructed = errors.New(
	"GetFailedRefundsQuery must be created via NewGetFailedRefundsQuery constructor",
)

// GetFailedRefundsQuery lists cancelled orders whose gateway refund failed
// and may be retried.
type GetFailedRefundsQuery struct {
	limit       int
	maxAttempts int
	guard       guard.ConstructorGuard
}

// NewGetFailedRefundsQuery skips refunds that already used maxAttempts.
func NewGetFailedRefundsQuery(limit, maxAttempts int) (GetFailedRefundsQuery, error) {
	var errList []error
	if limit <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded"))
	}
	if maxAttempts <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("max attempts", maxAttempts, 1, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return GetFailedRefundsQuery{}, err
	}

	return GetFailedRefundsQuery{limit: limit, maxAttempts: maxAttempts, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFailedRefundsQuery) Validate() error {
	return q.guard.Validate(ErrGetFailedRefundsQueryIsNotConstructed)
}

func (q GetFailedRefundsQuery) Limit() int       { return q.limit }
func (q GetFailedRefundsQuery) MaxAttempts() int { return q.maxAttempts }

type GetFailedRefundsQueryResponse struct {
	OrderID     kernel.UUID  `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	Amount      kernel.Money `json:"amount"`
	Attempts    int          `json:"attempts"`
	LastError   string       `json:"last_error"`
}
