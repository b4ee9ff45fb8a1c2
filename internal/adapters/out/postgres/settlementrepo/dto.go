// Package settlementrepo persists order settlements: the frozen user payment,
// the three-way split, escrow state and the cancellation/refund record.
package settlementrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementDTO is one row per order; order_id is unique.
type SettlementDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	OrderNumber   string    `gorm:"size:32;not null"`
	RestaurantID  uuid.UUID `gorm:"type:uuid;index;not null"`
	PaymentMethod string    `gorm:"size:16;not null"`
	PaymentID     string

	UserPayment UserPaymentDTO `gorm:"embedded;embeddedPrefix:user_"`
	Restaurant  RestaurantDTO  `gorm:"embedded;embeddedPrefix:restaurant_"`
	Partner     PartnerDTO     `gorm:"embedded;embeddedPrefix:partner_"`
	Admin       AdminDTO       `gorm:"embedded;embeddedPrefix:admin_"`

	EscrowStatus     string `gorm:"size:16;not null"`
	SettlementStatus string `gorm:"size:16;not null"`

	Cancellation CancellationDTO `gorm:"embedded;embeddedPrefix:cancel_"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	Version   int       `gorm:"not null;default:0"`
}

func (SettlementDTO) TableName() string {
	return "order_settlements"
}

type UserPaymentDTO struct {
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2)"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2)"`
	PlatformFee decimal.Decimal `gorm:"type:numeric(12,2)"`
	GST         decimal.Decimal `gorm:"column:gst;type:numeric(12,2)"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2)"`
}

type RestaurantDTO struct {
	Commission decimal.Decimal `gorm:"type:numeric(12,2)"`
	NetEarning decimal.Decimal `gorm:"type:numeric(12,2)"`
	Status     string          `gorm:"size:16"`
}

type PartnerDTO struct {
	Amount decimal.Decimal `gorm:"type:numeric(12,2)"`
	Status string          `gorm:"size:16"`
}

type AdminDTO struct {
	Commission   decimal.Decimal `gorm:"type:numeric(12,2)"`
	PlatformFee  decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveryFee  decimal.Decimal `gorm:"type:numeric(12,2)"`
	GST          decimal.Decimal `gorm:"column:gst;type:numeric(12,2)"`
	TotalEarning decimal.Decimal `gorm:"type:numeric(12,2)"`
	Status       string          `gorm:"size:16"`
}

// CancellationDTO columns are prefixed with cancel_, so the refund status is
// cancel_refund_status.
type CancellationDTO struct {
	Cancelled              bool `gorm:"not null;default:false"`
	At                     *time.Time
	Stage                  string          `gorm:"size:32"`
	RefundAmount           decimal.Decimal `gorm:"type:numeric(12,2)"`
	RestaurantCompensation decimal.Decimal `gorm:"type:numeric(12,2)"`
	RefundStatus           string          `gorm:"size:16;index"`
	RefundID               string
	RefundAttempts         int
	LastRefundError        string
	RefundInitiatedAt      *time.Time
}

func fromDomain(s *settlement.OrderSettlement) SettlementDTO {
	up := s.UserPayment()
	split := s.Split()
	c := s.Cancellation()

	return SettlementDTO{
		ID:            s.ID().Bytes(),
		OrderID:       s.OrderID().Bytes(),
		OrderNumber:   s.OrderNumber(),
		RestaurantID:  s.RestaurantID().Bytes(),
		PaymentMethod: string(s.PaymentMethod()),
		PaymentID:     s.PaymentID(),
		UserPayment: UserPaymentDTO{
			Subtotal:    up.Subtotal.Decimal(),
			Discount:    up.Discount.Decimal(),
			DeliveryFee: up.DeliveryFee.Decimal(),
			PlatformFee: up.PlatformFee.Decimal(),
			GST:         up.GST.Decimal(),
			Total:       up.Total.Decimal(),
		},
		Restaurant: RestaurantDTO{
			Commission: split.Restaurant.Commission.Decimal(),
			NetEarning: split.Restaurant.NetEarning.Decimal(),
			Status:     string(split.Restaurant.Status),
		},
		Partner: PartnerDTO{
			Amount: split.Partner.Amount.Decimal(),
			Status: string(split.Partner.Status),
		},
		Admin: AdminDTO{
			Commission:   split.Admin.Commission.Decimal(),
			PlatformFee:  split.Admin.PlatformFee.Decimal(),
			DeliveryFee:  split.Admin.DeliveryFee.Decimal(),
			GST:          split.Admin.GST.Decimal(),
			TotalEarning: split.Admin.TotalEarning.Decimal(),
			Status:       string(split.Admin.Status),
		},
		EscrowStatus:     string(s.EscrowStatus()),
		SettlementStatus: string(s.SettlementStatus()),
		Cancellation: CancellationDTO{
			Cancelled:              c.Cancelled,
			At:                     c.CancelledAt,
			Stage:                  string(c.Stage),
			RefundAmount:           c.RefundAmount.Decimal(),
			RestaurantCompensation: c.RestaurantCompensation.Decimal(),
			RefundStatus:           string(c.RefundStatus),
			RefundID:               c.RefundID,
			RefundAttempts:         c.RefundAttempts,
			LastRefundError:        c.LastRefundError,
			RefundInitiatedAt:      c.RefundInitiatedAt,
		},
		CreatedAt: s.CreatedAt(),
		Version:   s.Version(),
	}
}

func toDomain(dto SettlementDTO) (*settlement.OrderSettlement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	money := kernel.NewMoney

	return settlement.RestoreOrderSettlement(settlement.Snapshot{
		ID:            id,
		OrderID:       orderID,
		OrderNumber:   dto.OrderNumber,
		RestaurantID:  restaurantID,
		PaymentMethod: order.PaymentMethod(dto.PaymentMethod),
		PaymentID:     dto.PaymentID,
		UserPayment: settlement.UserPayment{
			Subtotal:    money(dto.UserPayment.Subtotal),
			Discount:    money(dto.UserPayment.Discount),
			DeliveryFee: money(dto.UserPayment.DeliveryFee),
			PlatformFee: money(dto.UserPayment.PlatformFee),
			GST:         money(dto.UserPayment.GST),
			Total:       money(dto.UserPayment.Total),
		},
		Split: settlement.Split{
			Restaurant: settlement.RestaurantEarning{
				Commission: money(dto.Restaurant.Commission),
				NetEarning: money(dto.Restaurant.NetEarning),
				Status:     settlement.EarningStatus(dto.Restaurant.Status),
			},
			Partner: settlement.DeliveryPartnerEarning{
				Amount: money(dto.Partner.Amount),
				Status: settlement.EarningStatus(dto.Partner.Status),
			},
			Admin: settlement.AdminEarning{
				Commission:   money(dto.Admin.Commission),
				PlatformFee:  money(dto.Admin.PlatformFee),
				DeliveryFee:  money(dto.Admin.DeliveryFee),
				GST:          money(dto.Admin.GST),
				TotalEarning: money(dto.Admin.TotalEarning),
				Status:       settlement.EarningStatus(dto.Admin.Status),
			},
		},
		EscrowStatus:     settlement.EscrowStatus(dto.EscrowStatus),
		SettlementStatus: settlement.Status(dto.SettlementStatus),
		Cancellation: settlement.CancellationDetails{
			Cancelled:              dto.Cancellation.Cancelled,
			CancelledAt:            dto.Cancellation.At,
			Stage:                  settlement.CancellationStage(dto.Cancellation.Stage),
			RefundAmount:           money(dto.Cancellation.RefundAmount),
			RestaurantCompensation: money(dto.Cancellation.RestaurantCompensation),
			RefundStatus:           settlement.RefundStatus(dto.Cancellation.RefundStatus),
			RefundID:               dto.Cancellation.RefundID,
			RefundAttempts:         dto.Cancellation.RefundAttempts,
			LastRefundError:        dto.Cancellation.LastRefundError,
			RefundInitiatedAt:      dto.Cancellation.RefundInitiatedAt,
		},
		CreatedAt: dto.CreatedAt,
		Version:   dto.Version,
	})
}
