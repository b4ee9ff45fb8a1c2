// Package http is the inbound REST adapter. It parses requests into
// commands and queries, calls the application handlers and maps the error
// taxonomy onto status codes. No business rule lives here.
package http

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Application handler contracts. The concrete handlers from the commands and
// queries packages satisfy them.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, command commands.CreateOrderCommand) (commands.CreateOrderResult, error)
	}
	VerifyPaymentHandler interface {
		Handle(ctx context.Context, command commands.VerifyPaymentCommand) (commands.VerifyPaymentResult, error)
	}
	AcceptOrderHandler interface {
		Handle(ctx context.Context, command commands.AcceptOrderCommand) (commands.AssignmentResult, error)
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, command commands.UpdateOrderStatusCommand) error
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, command commands.CancelOrderCommand) (commands.CancelOrderResult, error)
	}
	AssignPartnerHandler interface {
		Handle(ctx context.Context, command commands.AssignPartnerCommand) (commands.AssignmentResult, error)
	}
	ReleasePartnerHandler interface {
		Handle(ctx context.Context, command commands.ReleasePartnerCommand) (commands.AssignmentResult, error)
	}
	ExecuteRefundHandler interface {
		Handle(ctx context.Context, command commands.ExecuteRefundCommand) (commands.ExecuteRefundResult, error)
	}
	RegisterPartnerHandler interface {
		Handle(ctx context.Context, command commands.RegisterPartnerCommand) error
	}
	UpdatePartnerAvailabilityHandler interface {
		Handle(ctx context.Context, command commands.UpdatePartnerAvailabilityCommand) error
	}
	ConfigureZoneHandler interface {
		Handle(ctx context.Context, command commands.ConfigureZoneCommand) error
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetUnassignedOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetUnassignedOrdersQuery) ([]queries.GetUnassignedOrdersQueryResponse, error)
	}
)

// Handlers groups every use case the server exposes.
type Handlers struct {
	CreateOrder               CreateOrderHandler
	VerifyPayment             VerifyPaymentHandler
	AcceptOrder               AcceptOrderHandler
	UpdateOrderStatus         UpdateOrderStatusHandler
	CancelOrder               CancelOrderHandler
	AssignPartner             AssignPartnerHandler
	ReleasePartner            ReleasePartnerHandler
	ExecuteRefund             ExecuteRefundHandler
	RegisterPartner           RegisterPartnerHandler
	UpdatePartnerAvailability UpdatePartnerAvailabilityHandler
	ConfigureZone             ConfigureZoneHandler
	GetOrder                  GetOrderHandler
	GetUnassignedOrders       GetUnassignedOrdersHandler
}

// Server coordinates between HTTP requests and application use cases.
type Server struct {
	h Handlers
}

func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// RegisterRoutes mounts every endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/unassigned", s.GetUnassignedOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/payment/verify", s.VerifyPayment)
	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/reject", s.RejectOrder)
	api.POST("/orders/:id/ready", s.MarkReady)
	api.POST("/orders/:id/pickup", s.PickUpOrder)
	api.POST("/orders/:id/deliver", s.DeliverOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/assign", s.AssignPartner)
	api.POST("/orders/:id/release", s.ReleasePartner)
	api.POST("/orders/:id/refund", s.ExecuteRefund)

	api.POST("/partners", s.RegisterPartner)
	api.PUT("/partners/:id/availability", s.UpdatePartnerAvailability)

	api.PUT("/restaurants/:id/zone", s.ConfigureZone)
}
