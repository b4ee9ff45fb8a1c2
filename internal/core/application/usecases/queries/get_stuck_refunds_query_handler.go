package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetStuckRefundsQueryHandler struct {
	db *gorm.DB
}

func NewGetStuckRefundsQueryHandler(db *gorm.DB) GetStuckRefundsQueryHandler {
	return GetStuckRefundsQueryHandler{db: db}
}

// Handle returns refunds still initiated since before the cutoff, oldest first.
func (h GetStuckRefundsQueryHandler) Handle(
	ctx context.Context,
	query GetStuckRefundsQuery,
) ([]GetStuckRefundsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			order_number,
			cancel_refund_amount,
			cancel_refund_attempts,
			cancel_refund_initiated_at
		FROM order_settlements
		WHERE cancel_refund_status = ?
			AND cancel_refund_initiated_at < ?
		ORDER BY cancel_refund_initiated_at
		LIMIT ?
	`, string(settlement.RefundInitiated), query.InitiatedBefore(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refunds := make([]GetStuckRefundsQueryResponse, 0)
	for rows.Next() {
		var (
			orderID     uuid.UUID
			resp        GetStuckRefundsQueryResponse
			amount      decimal.Decimal
			initiatedAt time.Time
		)
		if err = rows.Scan(&orderID, &resp.OrderNumber, &amount, &resp.Attempts, &initiatedAt); err != nil {
			return nil, err
		}

		id, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.OrderID = id
		resp.Amount = kernel.NewMoney(amount)
		resp.InitiatedAt = initiatedAt.UTC()
		refunds = append(refunds, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return refunds, nil
}
