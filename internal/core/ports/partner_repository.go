package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/model/zone"
)

// PartnerRepository defines the persistence contract for delivery partners.
type PartnerRepository interface {
	Add(ctx context.Context, aggregate *partner.DeliveryPartner) error
	Update(ctx context.Context, aggregate *partner.DeliveryPartner) error
	Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error)

	// GetAllOnline returns partners that are online and allowed to work.
	// Dispatch applies the remaining eligibility rules itself.
	GetAllOnline(ctx context.Context) ([]*partner.DeliveryPartner, error)
}

// ZoneRepository resolves a restaurant's service area.
type ZoneRepository interface {
	Add(ctx context.Context, aggregate *zone.Zone) error

	// GetByRestaurant returns errs.ErrObjectNotFound when the restaurant has
	// no zone configured.
	GetByRestaurant(ctx context.Context, restaurantID kernel.UUID) (*zone.Zone, error)
}
