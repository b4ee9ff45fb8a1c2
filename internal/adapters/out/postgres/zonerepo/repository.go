package zonerepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormZoneRepository implements ZoneRepository using GORM.
type GormZoneRepository struct {
	db *gorm.DB
}

func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// Add stores a zone. A second zone for the same restaurant is rejected.
func (r *GormZoneRepository) Add(ctx context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewValueIsInvalidErrorWithCause("zone",
				fmt.Errorf("restaurant %s already has a zone", aggregate.RestaurantID()))
		}
		return err
	}
	return nil
}

func (r *GormZoneRepository) GetByRestaurant(ctx context.Context, restaurantID kernel.UUID) (*zone.Zone, error) {
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}

	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "restaurant_id = ?", restaurantID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("zone for restaurant", restaurantID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
