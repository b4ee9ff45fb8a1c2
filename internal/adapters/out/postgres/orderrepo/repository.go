package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewValueIsInvalidErrorWithCause("order number", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order columns, conditional on the stored version still
// being the one the aggregate was loaded with. Items are immutable and are
// never rewritten. While a partner is assigned the estimate belongs to
// UpdateETA and is left alone; once the partner is released it is cleared.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	omit := []string{clause.Associations, "ID", "CreatedAt"}
	if aggregate.HasPartner() {
		omit = append(omit, "ETAMinMinutes", "ETAMaxMinutes", "ETALastUpdated")
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit(omit...).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("order " + aggregate.Number())
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByNumber retrieves an order by its human-facing number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order number", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimForPartner writes only the assignment columns, and only if the stored
// order still has no partner and is not terminal. Two dispatchers racing for
// the same order both pass the in-memory checks; exactly one wins here.
func (r *GormOrderRepository) ClaimForPartner(ctx context.Context, aggregate *order.Order) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	partnerID := aggregate.DeliveryPartnerID()
	info := aggregate.Assignment()
	if partnerID == nil || info == nil {
		return false, order.ErrNoPartnerAssigned
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND delivery_partner_id IS NULL AND status NOT IN ?",
			aggregate.ID().Bytes(), terminalStatuses()).
		Updates(map[string]any{
			"delivery_partner_id": partnerID.Bytes(),
			"assigned_distance":   info.DistanceKm,
			"assigned_at":         info.AssignedAt,
			"assigned_by":         info.AssignedBy,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return true, nil
}

// UpdateETA overwrites the estimate of a non-terminal order without touching
// its version.
func (r *GormOrderRepository) UpdateETA(ctx context.Context, id kernel.UUID, eta order.ETA) error {
	if err := eta.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status NOT IN ?", id.Bytes(), terminalStatuses()).
		Updates(map[string]any{
			"eta_min_minutes":  eta.MinMinutes,
			"eta_max_minutes":  eta.MaxMinutes,
			"eta_last_updated": eta.LastUpdated.UTC().Truncate(time.Microsecond),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("non-terminal order", id.String())
	}
	return nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func terminalStatuses() []string {
	return []string{order.Delivered.String(), order.Cancelled.String()}
}
