package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnassignedOrdersQueryHandler reads unassigned orders straight from the
// orders table.
type GetUnassignedOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetUnassignedOrdersQueryHandler(db *gorm.DB) GetUnassignedOrdersQueryHandler {
	return GetUnassignedOrdersQueryHandler{db: db}
}

// Handle returns delivery-mode orders in confirmed, preparing or ready with no
// partner, oldest first.
func (h GetUnassignedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedOrdersQuery,
) ([]GetUnassignedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			restaurant_id,
			status,
			created_at
		FROM orders
		WHERE mode = ?
			AND delivery_partner_id IS NULL
			AND status IN ?
		ORDER BY created_at, id
		LIMIT ?
	`,
		string(order.ModeDelivery),
		[]string{order.Confirmed.String(), order.Preparing.String(), order.Ready.String()},
		query.Limit(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetUnassignedOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			id, restaurantID uuid.UUID
			number, status   string
			createdAt        time.Time
		)
		if err = rows.Scan(&id, &number, &restaurantID, &status, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		restaurant, idErr := kernel.UUIDFromBytes(restaurantID[:])
		if idErr != nil {
			return nil, idErr
		}

		orders = append(orders, GetUnassignedOrdersQueryResponse{
			ID:           orderID,
			Number:       number,
			RestaurantID: restaurant,
			Status:       status,
			CreatedAt:    createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
