// Package zonerepo persists restaurant service areas. The optional boundary
// polygon is stored as a JSON array of [lat, lng] pairs.
package zonerepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"

	"github.com/google/uuid"
)

// ZoneDTO represents the database structure for zones. A restaurant has at
// most one zone.
type ZoneDTO struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Name         string       `gorm:"not null"`
	RestaurantID uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null"`
	Boundary     BoundaryJSON `gorm:"type:text"`
}

func (ZoneDTO) TableName() string {
	return "zones"
}

// BoundaryJSON is a polygon ring encoded as JSON. A nil ring is stored as NULL.
type BoundaryJSON [][2]float64

func (b BoundaryJSON) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	raw, err := json.Marshal([][2]float64(b))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (b *BoundaryJSON) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*b = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("zone boundary: unsupported column type %T", value)
	}
	return json.Unmarshal(raw, (*[][2]float64)(b))
}

func fromDomain(z *zone.Zone) ZoneDTO {
	dto := ZoneDTO{
		ID:           z.ID().Bytes(),
		Name:         z.Name(),
		RestaurantID: z.RestaurantID().Bytes(),
	}

	if polygon, ok := z.Boundary(); ok {
		vertices := polygon.Vertices()
		dto.Boundary = make(BoundaryJSON, 0, len(vertices))
		for _, v := range vertices {
			dto.Boundary = append(dto.Boundary, [2]float64{v.Lat(), v.Lng()})
		}
	}

	return dto
}

func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var boundary *kernel.Polygon
	if dto.Boundary != nil {
		vertices := make([]kernel.Location, 0, len(dto.Boundary))
		for _, pair := range dto.Boundary {
			loc, locErr := kernel.NewLocation(pair[0], pair[1])
			if locErr != nil {
				return nil, locErr
			}
			vertices = append(vertices, loc)
		}

		polygon, polyErr := kernel.NewPolygon(vertices)
		if polyErr != nil {
			return nil, polyErr
		}
		boundary = &polygon
	}

	return zone.NewZone(id, dto.Name, restaurantID, boundary)
}
