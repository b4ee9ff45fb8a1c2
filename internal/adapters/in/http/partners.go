package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// RegisterPartner handles POST /api/v1/partners.
func (s *Server) RegisterPartner(c echo.Context) error {
	var req RegisterPartnerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	command, err := commands.NewRegisterPartnerCommand(req.Name, req.ZoneID)
	if err != nil {
		return writeError(c, err)
	}

	if err = s.h.RegisterPartner.Handle(c.Request().Context(), command); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterPartnerResponse{ID: command.PartnerID()})
}

// UpdatePartnerAvailability handles PUT /api/v1/partners/:id/availability,
// the partner heartbeat.
func (s *Server) UpdatePartnerAvailability(c echo.Context) error {
	partnerID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid partner id")
	}

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var location *kernel.Location
	if req.Location != nil {
		loc, err := req.Location.toDomain("partner location")
		if err != nil {
			return writeError(c, err)
		}
		location = &loc
	}

	command, err := commands.NewUpdatePartnerAvailabilityCommand(partnerID, req.IsOnline, location)
	if err != nil {
		return writeError(c, err)
	}

	if err = s.h.UpdatePartnerAvailability.Handle(c.Request().Context(), command); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ConfigureZone handles PUT /api/v1/restaurants/:id/zone.
func (s *Server) ConfigureZone(c echo.Context) error {
	restaurantID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid restaurant id")
	}

	var req ZoneRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	boundary, err := req.boundary()
	if err != nil {
		return writeError(c, err)
	}

	command, err := commands.NewConfigureZoneCommand(restaurantID, req.Name, boundary)
	if err != nil {
		return writeError(c, err)
	}

	if err = s.h.ConfigureZone.Handle(c.Request().Context(), command); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
