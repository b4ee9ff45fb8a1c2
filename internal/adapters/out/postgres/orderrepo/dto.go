// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// The order row carries the frozen checkout data, the lifecycle timeline and the
// optimistic-concurrency version; line items live in their own table.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed for the redispatch scan (status, partner) and lookups by number.
type OrderDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number string    `gorm:"size:32;uniqueIndex;not null"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	RestaurantID       uuid.UUID   `gorm:"type:uuid;index;not null"`
	RestaurantName     string      `gorm:"not null"`
	RestaurantLocation LocationDTO `gorm:"embedded;embeddedPrefix:restaurant_"`

	AddressText     string      `gorm:"not null"`
	AddressLocation LocationDTO `gorm:"embedded;embeddedPrefix:address_"`

	Pricing PricingDTO `gorm:"embedded"`
	Mode    string     `gorm:"size:16;not null"`

	PaymentMethod    string `gorm:"size:16;not null"`
	PaymentStatus    string `gorm:"size:16;not null"`
	PaymentChargeID  string
	PaymentPaymentID string

	Status string `gorm:"size:32;index;not null"`

	ConfirmedAt      *time.Time
	PreparingAt      *time.Time
	ReadyAt          *time.Time
	OutForDeliveryAt *time.Time

	DeliveryPartnerID *uuid.UUID `gorm:"type:uuid;index"`
	AssignedDistance  *float64
	AssignedAt        *time.Time
	AssignedBy        *string

	ETAMinMinutes  *int       `gorm:"column:eta_min_minutes"`
	ETAMaxMinutes  *int       `gorm:"column:eta_max_minutes"`
	ETALastUpdated *time.Time `gorm:"column:eta_last_updated"`

	CancellationReason string
	CancelledBy        string `gorm:"size:16"`
	CancelledAt        *time.Time
	DeliveredAt        *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	Version   int       `gorm:"not null;default:0"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line of an order, kept in checkout order by Position.
type OrderItemDTO struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position   int             `gorm:"not null"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null"`
	Name       string          `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity   int             `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// LocationDTO represents embedded WGS84 coordinates.
type LocationDTO struct {
	Lat float64
	Lng float64
}

// PricingDTO is the frozen price breakdown.
type PricingDTO struct {
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PlatformFee decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Tax         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	restaurant := o.Restaurant()
	address := o.Address()
	pricing := o.Pricing()
	payment := o.Payment()
	tracking := o.Tracking()

	dto := OrderDTO{
		ID:                 o.ID().Bytes(),
		Number:             o.Number(),
		UserID:             o.UserID().Bytes(),
		RestaurantID:       restaurant.ID().Bytes(),
		RestaurantName:     restaurant.Name(),
		RestaurantLocation: locationFromDomain(restaurant.Location()),
		AddressText:        address.Text(),
		AddressLocation:    locationFromDomain(address.Location()),
		Pricing: PricingDTO{
			Subtotal:    pricing.Subtotal.Decimal(),
			Discount:    pricing.Discount.Decimal(),
			DeliveryFee: pricing.DeliveryFee.Decimal(),
			PlatformFee: pricing.PlatformFee.Decimal(),
			Tax:         pricing.Tax.Decimal(),
			Total:       pricing.Total.Decimal(),
		},
		Mode:               string(o.Mode()),
		PaymentMethod:      string(payment.Method()),
		PaymentStatus:      string(payment.Status()),
		PaymentChargeID:    payment.ChargeID(),
		PaymentPaymentID:   payment.PaymentID(),
		Status:             o.Status().String(),
		ConfirmedAt:        tracking.Confirmed().Time(),
		PreparingAt:        tracking.Preparing().Time(),
		ReadyAt:            tracking.Ready().Time(),
		OutForDeliveryAt:   tracking.OutForDelivery().Time(),
		CancellationReason: o.CancellationReason(),
		CancelledBy:        string(o.CancelledBy()),
		CancelledAt:        o.CancelledAt(),
		DeliveredAt:        o.DeliveredAt(),
		CreatedAt:          o.CreatedAt(),
		Version:            o.Version(),
	}

	if id := o.DeliveryPartnerID(); id != nil {
		raw := id.Bytes()
		dto.DeliveryPartnerID = &raw
	}

	if a := o.Assignment(); a != nil {
		dto.AssignedDistance = &a.DistanceKm
		dto.AssignedAt = &a.AssignedAt
		dto.AssignedBy = &a.AssignedBy
	}

	if eta := o.ETA(); eta != nil {
		dto.ETAMinMinutes = &eta.MinMinutes
		dto.ETAMaxMinutes = &eta.MaxMinutes
		dto.ETALastUpdated = &eta.LastUpdated
	}

	items := o.Items()
	dto.Items = make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:    dto.ID,
			Position:   i,
			MenuItemID: item.MenuItemID().Bytes(),
			Name:       item.Name(),
			Price:      item.Price().Decimal(),
			Quantity:   item.Quantity(),
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
// Items must be preloaded in Position order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	restaurant, err := restaurantToDomain(dto)
	if err != nil {
		return nil, err
	}

	addressLocation, err := kernel.NewLocation(dto.AddressLocation.Lat, dto.AddressLocation.Lng)
	if err != nil {
		return nil, err
	}
	address, err := order.NewAddress(dto.AddressText, addressLocation)
	if err != nil {
		return nil, err
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:         id,
		Number:     dto.Number,
		UserID:     userID,
		Restaurant: restaurant,
		Items:      items,
		Address:    address,
		Pricing: order.Pricing{
			Subtotal:    kernel.NewMoney(dto.Pricing.Subtotal),
			Discount:    kernel.NewMoney(dto.Pricing.Discount),
			DeliveryFee: kernel.NewMoney(dto.Pricing.DeliveryFee),
			PlatformFee: kernel.NewMoney(dto.Pricing.PlatformFee),
			Tax:         kernel.NewMoney(dto.Pricing.Tax),
			Total:       kernel.NewMoney(dto.Pricing.Total),
		},
		Mode: order.DeliveryMode(dto.Mode),
		Payment: order.RestorePayment(
			order.PaymentMethod(dto.PaymentMethod),
			order.PaymentStatus(dto.PaymentStatus),
			dto.PaymentChargeID,
			dto.PaymentPaymentID,
		),
		Status: status,
		Tracking: order.RestoreTracking(
			dto.ConfirmedAt, dto.PreparingAt, dto.ReadyAt, dto.OutForDeliveryAt, dto.DeliveredAt),
		CancellationReason: dto.CancellationReason,
		CancelledBy:        order.Actor(dto.CancelledBy),
		CancelledAt:        dto.CancelledAt,
		DeliveredAt:        dto.DeliveredAt,
		CreatedAt:          dto.CreatedAt,
		Version:            dto.Version,
	}

	if dto.DeliveryPartnerID != nil {
		partnerID, partnerErr := kernel.UUIDFromBytes((*dto.DeliveryPartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		s.DeliveryPartnerID = &partnerID
	}

	if dto.AssignedAt != nil {
		info := order.AssignmentInfo{AssignedAt: *dto.AssignedAt}
		if dto.AssignedDistance != nil {
			info.DistanceKm = *dto.AssignedDistance
		}
		if dto.AssignedBy != nil {
			info.AssignedBy = *dto.AssignedBy
		}
		s.Assignment = &info
	}

	if dto.ETAMinMinutes != nil && dto.ETAMaxMinutes != nil {
		eta := order.ETA{MinMinutes: *dto.ETAMinMinutes, MaxMinutes: *dto.ETAMaxMinutes}
		if dto.ETALastUpdated != nil {
			eta.LastUpdated = *dto.ETALastUpdated
		}
		s.ETA = &eta
	}

	return order.RestoreOrder(s)
}

func restaurantToDomain(dto OrderDTO) (order.RestaurantSnapshot, error) {
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return order.RestaurantSnapshot{}, err
	}

	loc, err := kernel.NewLocation(dto.RestaurantLocation.Lat, dto.RestaurantLocation.Lng)
	if err != nil {
		return order.RestaurantSnapshot{}, err
	}

	return order.NewRestaurantSnapshot(restaurantID, dto.RestaurantName, loc)
}

func itemsToDomain(dtos []OrderItemDTO) ([]order.Item, error) {
	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
		if err != nil {
			return nil, err
		}

		item, err := order.NewItem(menuItemID, dto.Name, kernel.NewMoney(dto.Price), dto.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func locationFromDomain(l kernel.Location) LocationDTO {
	return LocationDTO{Lat: l.Lat(), Lng: l.Lng()}
}
