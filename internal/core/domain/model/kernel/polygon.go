package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// PolygonMinVertices is the smallest number of vertices that encloses an area.
const PolygonMinVertices = 3

var ErrPolygonIsNotConstructed = errs.NewValueIsRequiredError(
	"polygon must be created via NewPolygon constructor")

// Polygon is a closed service-area boundary. The ring is implicitly closed:
// the last vertex connects back to the first, so callers must not repeat it.
type Polygon struct {
	vertices []Location
	guard    guard.ConstructorGuard
}

// NewPolygon copies vertices and validates each of them.
func NewPolygon(vertices []Location) (Polygon, error) {
	if len(vertices) < PolygonMinVertices {
		return Polygon{}, errs.NewValueIsInvalidErrorWithCause(
			"polygon",
			fmt.Errorf("%d vertices given, at least %d required", len(vertices), PolygonMinVertices),
		)
	}

	copied := make([]Location, len(vertices))
	for i, v := range vertices {
		if err := v.Validate(); err != nil {
			return Polygon{}, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("polygon vertex %d", i), err)
		}
		copied[i] = v
	}

	return Polygon{vertices: copied, guard: guard.NewConstructorGuard()}, nil
}

func (p Polygon) Validate() error {
	return p.guard.Validate(ErrPolygonIsNotConstructed)
}

// Vertices returns a copy of the boundary ring.
func (p Polygon) Vertices() []Location {
	out := make([]Location, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Contains runs the even-odd ray-casting test with longitude as x and latitude
// as y. Points exactly on an edge may fall on either side.
func (p Polygon) Contains(point Location) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if err := point.Validate(); err != nil {
		return false, err
	}

	x, y := point.lng, point.lat
	inside := false

	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := p.vertices[i].lng, p.vertices[i].lat
		xj, yj := p.vertices[j].lng, p.vertices[j].lat

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}

	return inside, nil
}
