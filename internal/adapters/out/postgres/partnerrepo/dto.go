// Package partnerrepo persists delivery partners: account status, the online
// flag and the last reported position used by dispatch.
package partnerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO represents the database structure for delivery partners.
// The (is_online, status) index serves the dispatch scan.
type PartnerDTO struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name       string      `gorm:"not null"`
	Status     string      `gorm:"size:16;not null;index:idx_partner_availability,priority:2"`
	IsOnline   bool        `gorm:"not null;index:idx_partner_availability,priority:1"`
	Location   LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	LastUpdate time.Time
	ZoneID     *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName overrides GORM's default naming convention.
func (PartnerDTO) TableName() string {
	return "delivery_partners"
}

// LocationDTO is the last reported WGS84 position.
type LocationDTO struct {
	Lat float64
	Lng float64
}

func fromDomain(p *partner.DeliveryPartner) PartnerDTO {
	dto := PartnerDTO{
		ID:         p.ID().Bytes(),
		Name:       p.Name(),
		Status:     string(p.Status()),
		IsOnline:   p.IsOnline(),
		Location:   LocationDTO{Lat: p.Location().Lat(), Lng: p.Location().Lng()},
		LastUpdate: p.LastUpdate(),
	}

	if zoneID := p.ZoneID(); zoneID != nil {
		raw := zoneID.Bytes()
		dto.ZoneID = &raw
	}

	return dto
}

func toDomain(dto PartnerDTO) (*partner.DeliveryPartner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	loc, err := kernel.NewLocation(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}

	var zoneID *kernel.UUID
	if dto.ZoneID != nil {
		zID, zoneErr := kernel.UUIDFromBytes((*dto.ZoneID)[:])
		if zoneErr != nil {
			return nil, zoneErr
		}
		zoneID = &zID
	}

	return partner.RestoreDeliveryPartner(
		id,
		dto.Name,
		partner.Status(dto.Status),
		dto.IsOnline,
		loc,
		dto.LastUpdate,
		zoneID,
	)
}
