package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetFailedRefundsQueryHandler struct {
	db *gorm.DB
}

func NewGetFailedRefundsQueryHandler(db *gorm.DB) GetFailedRefundsQueryHandler {
	return GetFailedRefundsQueryHandler{db: db}
}

// Handle returns failed refunds with attempts left, least-tried first.
func (h GetFailedRefundsQueryHandler) Handle(
	ctx context.Context,
	query GetFailedRefundsQuery,
) ([]GetFailedRefundsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			order_number,
			cancel_refund_amount,
			cancel_refund_attempts,
			cancel_last_refund_error
		FROM order_settlements
		WHERE cancel_refund_status = ?
			AND cancel_refund_attempts < ?
		ORDER BY cancel_refund_attempts, created_at
		LIMIT ?
	`, string(settlement.RefundFailed), query.MaxAttempts(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refunds := make([]GetFailedRefundsQueryResponse, 0)
	for rows.Next() {
		var (
			orderID uuid.UUID
			resp    GetFailedRefundsQueryResponse
			amount  decimal.Decimal
		)
		if err = rows.Scan(&orderID, &resp.OrderNumber, &amount, &resp.Attempts, &resp.LastError); err != nil {
			return nil, err
		}

		id, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.OrderID = id
		resp.Amount = kernel.NewMoney(amount)
		refunds = append(refunds, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return refunds, nil
}
