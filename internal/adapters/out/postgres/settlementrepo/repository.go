package settlementrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettlementRepository implements SettlementRepository using GORM.
type GormSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormSettlementRepository {
	return &GormSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the settlement unless the order already has one. The unique
// order_id index makes concurrent opens collapse into a single row.
func (r *GormSettlementRepository) Add(ctx context.Context, aggregate *settlement.OrderSettlement) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return true, nil
}

// Update is conditional on the version the settlement was loaded with.
func (r *GormSettlementRepository) Update(ctx context.Context, aggregate *settlement.OrderSettlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&SettlementDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("ID", "OrderID", "CreatedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("settlement of order " + aggregate.OrderNumber())
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormSettlementRepository) GetByOrderID(
	ctx context.Context,
	orderID kernel.UUID,
) (*settlement.OrderSettlement, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto SettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("settlement for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
