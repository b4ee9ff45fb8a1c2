package queries

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler builds the tracking view from the orders, order_items
// and order_settlements tables without loading aggregates.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID                 uuid.UUID
	Number             string
	UserID             uuid.UUID
	RestaurantID       uuid.UUID
	RestaurantName     string
	AddressText        string
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	DeliveryFee        decimal.Decimal
	PlatformFee        decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
	Mode               string
	PaymentMethod      string
	PaymentStatus      string
	Status             string
	ConfirmedAt        *time.Time
	PreparingAt        *time.Time
	ReadyAt            *time.Time
	OutForDeliveryAt   *time.Time
	DeliveredAt        *time.Time
	DeliveryPartnerID  *uuid.UUID
	AssignedDistance   *float64
	AssignedAt         *time.Time
	AssignedBy         *string
	ETAMinMinutes      *int       `gorm:"column:eta_min_minutes"`
	ETAMaxMinutes      *int       `gorm:"column:eta_max_minutes"`
	ETALastUpdated     *time.Time `gorm:"column:eta_last_updated"`
	CancellationReason string
	CancelledBy        string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	Version            int
}

type itemRow struct {
	MenuItemID uuid.UUID
	Name       string
	Price      decimal.Decimal
	Quantity   int
}

type refundRow struct {
	CancelRefundStatus string
	CancelRefundAmount decimal.Decimal
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	orderID := query.OrderID()

	var row orderRow
	if err := db.Table("orders").Where("id = ?", orderID.Bytes()).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetOrderQueryResponse{}, err
	}

	var items []itemRow
	if err := db.Table("order_items").
		Where("order_id = ?", orderID.Bytes()).
		Order("position").
		Find(&items).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := row.toResponse(items)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.Cancellation != nil {
		var refund refundRow
		err = db.Table("order_settlements").
			Select("cancel_refund_status, cancel_refund_amount").
			Where("order_id = ?", orderID.Bytes()).
			Take(&refund).Error
		switch {
		case err == nil:
			amount := kernel.NewMoney(refund.CancelRefundAmount)
			resp.Cancellation.RefundStatus = refund.CancelRefundStatus
			resp.Cancellation.RefundAmount = &amount
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return GetOrderQueryResponse{}, err
		}
	}

	return resp, nil
}

func (r orderRow) toResponse(items []itemRow) (GetOrderQueryResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	userID, err := kernel.UUIDFromBytes(r.UserID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(r.RestaurantID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{
		ID:         id,
		Number:     r.Number,
		UserID:     userID,
		Status:     r.Status,
		Mode:       r.Mode,
		Restaurant: RestaurantView{ID: restaurantID, Name: r.RestaurantName},
		Address:    r.AddressText,
		Items:      make([]OrderItemView, 0, len(items)),
		Pricing: PricingView{
			Subtotal:    kernel.NewMoney(r.Subtotal),
			Discount:    kernel.NewMoney(r.Discount),
			DeliveryFee: kernel.NewMoney(r.DeliveryFee),
			PlatformFee: kernel.NewMoney(r.PlatformFee),
			Tax:         kernel.NewMoney(r.Tax),
			Total:       kernel.NewMoney(r.Total),
		},
		Payment:   PaymentView{Method: r.PaymentMethod, Status: r.PaymentStatus},
		Timeline:  r.timeline(),
		CreatedAt: r.CreatedAt,
		Version:   r.Version,
	}

	for _, item := range items {
		menuItemID, idErr := kernel.UUIDFromBytes(item.MenuItemID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.Items = append(resp.Items, OrderItemView{
			MenuItemID: menuItemID,
			Name:       item.Name,
			Price:      kernel.NewMoney(item.Price),
			Quantity:   item.Quantity,
		})
	}

	if r.DeliveryPartnerID != nil {
		partnerID, idErr := kernel.UUIDFromBytes((*r.DeliveryPartnerID)[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		view := &AssignmentView{PartnerID: partnerID}
		if r.AssignedDistance != nil {
			view.DistanceKm = *r.AssignedDistance
		}
		if r.AssignedAt != nil {
			view.AssignedAt = *r.AssignedAt
		}
		if r.AssignedBy != nil {
			view.AssignedBy = *r.AssignedBy
		}
		resp.Assignment = view
	}

	if r.ETAMinMinutes != nil && r.ETAMaxMinutes != nil {
		eta := &ETAView{MinMinutes: *r.ETAMinMinutes, MaxMinutes: *r.ETAMaxMinutes}
		if r.ETALastUpdated != nil {
			eta.LastUpdated = *r.ETALastUpdated
		}
		resp.ETA = eta
	}

	if r.CancelledAt != nil {
		resp.Cancellation = &CancellationView{
			Reason: r.CancellationReason,
			By:     r.CancelledBy,
			At:     *r.CancelledAt,
		}
	}

	return resp, nil
}

func (r orderRow) timeline() []TimelineEntry {
	steps := []struct {
		status order.Status
		at     *time.Time
	}{
		{order.Pending, &r.CreatedAt},
		{order.Confirmed, r.ConfirmedAt},
		{order.Preparing, r.PreparingAt},
		{order.Ready, r.ReadyAt},
		{order.OutForDelivery, r.OutForDeliveryAt},
		{order.Delivered, r.DeliveredAt},
		{order.Cancelled, r.CancelledAt},
	}

	entries := make([]TimelineEntry, 0, len(steps))
	for _, step := range steps {
		if step.at == nil {
			continue
		}
		entries = append(entries, TimelineEntry{Status: step.status.String(), At: *step.at})
	}
	return entries
}
