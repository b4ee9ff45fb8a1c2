package http

import (
	"errors"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LocationRequest) toDomain(param string) (kernel.Location, error) {
	loc, err := kernel.NewLocation(l.Lat, l.Lng)
	if err != nil {
		return kernel.Location{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return loc, nil
}

type RestaurantRequest struct {
	ID                    kernel.UUID     `json:"id"`
	Name                  string          `json:"name"`
	Location              LocationRequest `json:"location"`
	FreeDeliveryThreshold *kernel.Money   `json:"free_delivery_threshold,omitempty"`
}

type OrderLineRequest struct {
	MenuItemID kernel.UUID  `json:"menu_item_id"`
	Name       string       `json:"name"`
	Price      kernel.Money `json:"price"`
	Quantity   int          `json:"quantity"`
}

type AddressRequest struct {
	Text     string          `json:"text"`
	Location LocationRequest `json:"location"`
}

type CouponRequest struct {
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MaxDiscount *kernel.Money   `json:"max_discount,omitempty"`
	MinOrder    kernel.Money    `json:"min_order"`
}

type CreateOrderRequest struct {
	UserID        kernel.UUID        `json:"user_id"`
	Restaurant    RestaurantRequest  `json:"restaurant"`
	Items         []OrderLineRequest `json:"items"`
	Address       AddressRequest     `json:"address"`
	Coupon        *CouponRequest     `json:"coupon,omitempty"`
	Mode          string             `json:"mode"`
	PaymentMethod string             `json:"payment_method"`
}

func (r CreateOrderRequest) toCommand() (commands.CreateOrderCommand, error) {
	restaurantLoc, restaurantErr := r.Restaurant.Location.toDomain("restaurant location")
	addressLoc, addressErr := r.Address.Location.toDomain("address location")
	if err := errors.Join(restaurantErr, addressErr); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lines := make([]commands.OrderLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, commands.OrderLine{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
	}

	var coupon *services.Coupon
	if r.Coupon != nil {
		coupon = &services.Coupon{
			Code:        r.Coupon.Code,
			Type:        services.CouponType(r.Coupon.Type),
			Value:       r.Coupon.Value,
			MaxDiscount: r.Coupon.MaxDiscount,
			MinOrder:    r.Coupon.MinOrder,
		}
	}

	mode := order.DeliveryMode(r.Mode)
	if r.Mode == "" {
		mode = order.ModeDelivery
	}

	return commands.NewCreateOrderCommand(commands.CheckoutRequest{
		UserID:                r.UserID,
		RestaurantID:          r.Restaurant.ID,
		RestaurantName:        r.Restaurant.Name,
		RestaurantLocation:    restaurantLoc,
		FreeDeliveryThreshold: r.Restaurant.FreeDeliveryThreshold,
		Lines:                 lines,
		AddressText:           r.Address.Text,
		AddressLocation:       addressLoc,
		Coupon:                coupon,
		Mode:                  mode,
		Method:                order.PaymentMethod(r.PaymentMethod),
	})
}

type PricingResponse struct {
	Subtotal    kernel.Money `json:"subtotal"`
	Discount    kernel.Money `json:"discount"`
	DeliveryFee kernel.Money `json:"delivery_fee"`
	PlatformFee kernel.Money `json:"platform_fee"`
	Tax         kernel.Money `json:"tax"`
	Total       kernel.Money `json:"total"`
}

type CreateOrderResponse struct {
	OrderID     kernel.UUID     `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Pricing     PricingResponse `json:"pricing"`
	Savings     kernel.Money    `json:"savings"`
	ChargeID    string          `json:"charge_id,omitempty"`
}

func createOrderResponse(r commands.CreateOrderResult) CreateOrderResponse {
	return CreateOrderResponse{
		OrderID:     r.OrderID,
		OrderNumber: r.OrderNumber,
		Pricing: PricingResponse{
			Subtotal:    r.Pricing.Subtotal,
			Discount:    r.Pricing.Discount,
			DeliveryFee: r.Pricing.DeliveryFee,
			PlatformFee: r.Pricing.PlatformFee,
			Tax:         r.Pricing.Tax,
			Total:       r.Pricing.Total,
		},
		Savings:  r.Savings,
		ChargeID: r.ChargeID,
	}
}

type VerifyPaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type VerifyPaymentResponse struct {
	AlreadyPaid  bool   `json:"already_paid"`
	SettlementID string `json:"settlement_id,omitempty"`
}

type AssignmentResponse struct {
	Outcome    string       `json:"outcome"`
	PartnerID  *kernel.UUID `json:"partner_id,omitempty"`
	DistanceKm float64      `json:"distance_km,omitempty"`
}

func assignmentResponse(r commands.AssignmentResult) AssignmentResponse {
	return AssignmentResponse{Outcome: string(r.Outcome), PartnerID: r.PartnerID, DistanceKm: r.DistanceKm}
}

type PartnerActionRequest struct {
	PartnerID kernel.UUID `json:"partner_id"`
}

type UpdateStatusRequest struct {
	Status    string       `json:"status"`
	PartnerID *kernel.UUID `json:"partner_id,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor,omitempty"`
}

type RefundResponse struct {
	Settled                bool          `json:"settled"`
	Recorded               bool          `json:"recorded"`
	Stage                  string        `json:"stage,omitempty"`
	RefundAmount           *kernel.Money `json:"refund_amount,omitempty"`
	RestaurantCompensation *kernel.Money `json:"restaurant_compensation,omitempty"`
	RefundStatus           string        `json:"refund_status,omitempty"`
}

type CancelOrderResponse struct {
	Refund         RefundResponse `json:"refund"`
	RefundExecuted bool           `json:"refund_executed"`
}

func cancelOrderResponse(r commands.CancelOrderResult) CancelOrderResponse {
	refund := RefundResponse{
		Settled:      r.Refund.Settled,
		Recorded:     r.Refund.Recorded,
		Stage:        string(r.Refund.Outcome.Stage),
		RefundStatus: string(r.Refund.RefundStatus),
	}
	if r.Refund.Settled {
		amount := r.Refund.Outcome.RefundAmount
		compensation := r.Refund.Outcome.RestaurantCompensation
		refund.RefundAmount = &amount
		refund.RestaurantCompensation = &compensation
	}
	return CancelOrderResponse{Refund: refund, RefundExecuted: r.RefundExecuted}
}

type ExecuteRefundResponse struct {
	RefundID     string       `json:"refund_id,omitempty"`
	RefundStatus string       `json:"refund_status"`
	Amount       kernel.Money `json:"amount"`
}

type RegisterPartnerRequest struct {
	Name   string       `json:"name"`
	ZoneID *kernel.UUID `json:"zone_id,omitempty"`
}

type RegisterPartnerResponse struct {
	ID kernel.UUID `json:"id"`
}

type AvailabilityRequest struct {
	IsOnline bool             `json:"is_online"`
	Location *LocationRequest `json:"location,omitempty"`
}

type ZoneRequest struct {
	Name string `json:"name"`

	// Boundary vertices as [lat, lng] pairs. Omit for a zone without a
	// polygon.
	Boundary [][2]float64 `json:"boundary,omitempty"`
}

func (r ZoneRequest) boundary() (*kernel.Polygon, error) {
	if len(r.Boundary) == 0 {
		return nil, nil
	}

	vertices := make([]kernel.Location, 0, len(r.Boundary))
	for _, v := range r.Boundary {
		loc, err := LocationRequest{Lat: v[0], Lng: v[1]}.toDomain("zone boundary")
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, loc)
	}

	polygon, err := kernel.NewPolygon(vertices)
	if err != nil {
		return nil, err
	}
	return &polygon, nil
}
