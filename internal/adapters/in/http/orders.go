package http

import (
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const defaultUnassignedLimit = 100

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	command, err := req.toCommand()
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.CreateOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, createOrderResponse(result))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(c, err)
	}

	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, view)
}

// GetUnassignedOrders handles GET /api/v1/orders/unassigned?limit=N.
func (s *Server) GetUnassignedOrders(c echo.Context) error {
	limit := defaultUnassignedLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid limit")
		}
		limit = parsed
	}

	query, err := queries.NewGetUnassignedOrdersQuery(limit)
	if err != nil {
		return writeError(c, err)
	}

	orders, err := s.h.GetUnassignedOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// VerifyPayment handles POST /api/v1/orders/:id/payment/verify.
func (s *Server) VerifyPayment(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	command, err := commands.NewVerifyPaymentCommand(orderID, req.PaymentID, req.Signature)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.VerifyPayment.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, VerifyPaymentResponse{
		AlreadyPaid:  result.AlreadyPaid,
		SettlementID: result.SettlementID,
	})
}

// AcceptOrder handles POST /api/v1/orders/:id/accept. The response carries
// the outcome of the dispatch attempt that follows acceptance.
func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	command, err := commands.NewAcceptOrderCommand(orderID)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.AcceptOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, assignmentResponse(result))
}

// RejectOrder handles POST /api/v1/orders/:id/reject: a restaurant
// cancellation.
func (s *Server) RejectOrder(c echo.Context) error {
	return s.cancel(c, order.ActorRestaurant)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel. The actor defaults to
// the customer.
func (s *Server) CancelOrder(c echo.Context) error {
	return s.cancel(c, order.ActorUser)
}

func (s *Server) cancel(c echo.Context, defaultActor order.Actor) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	var req CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor := defaultActor
	if req.Actor != "" {
		actor = order.Actor(req.Actor)
	}

	command, err := commands.NewCancelOrderCommand(orderID, req.Reason, actor)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.CancelOrder.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cancelOrderResponse(result))
}

// MarkReady handles POST /api/v1/orders/:id/ready.
func (s *Server) MarkReady(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}
	return s.transition(c, orderID, order.Ready, nil)
}

// PickUpOrder handles POST /api/v1/orders/:id/pickup.
func (s *Server) PickUpOrder(c echo.Context) error {
	return s.partnerTransition(c, order.OutForDelivery)
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver.
func (s *Server) DeliverOrder(c echo.Context) error {
	return s.partnerTransition(c, order.Delivered)
}

func (s *Server) partnerTransition(c echo.Context, target order.Status) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	var req PartnerActionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	return s.transition(c, orderID, target, &req.PartnerID)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return s.transition(c, orderID, target, req.PartnerID)
}

func (s *Server) transition(c echo.Context, orderID kernel.UUID, target order.Status, partnerID *kernel.UUID) error {
	command, err := commands.NewUpdateOrderStatusCommand(orderID, target, partnerID)
	if err != nil {
		return writeError(c, err)
	}

	if err = s.h.UpdateOrderStatus.Handle(c.Request().Context(), command); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AssignPartner handles POST /api/v1/orders/:id/assign. No matching partner
// is a normal outcome, not an error.
func (s *Server) AssignPartner(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	command, err := commands.NewAssignPartnerCommand(orderID)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.AssignPartner.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, assignmentResponse(result))
}

// ReleasePartner handles POST /api/v1/orders/:id/release.
func (s *Server) ReleasePartner(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	command, err := commands.NewReleasePartnerCommand(orderID)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.ReleasePartner.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, assignmentResponse(result))
}

// ExecuteRefund handles POST /api/v1/orders/:id/refund.
func (s *Server) ExecuteRefund(c echo.Context) error {
	orderID, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid order id")
	}

	command, err := commands.NewExecuteRefundCommand(orderID)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.ExecuteRefund.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ExecuteRefundResponse{
		RefundID:     result.RefundID,
		RefundStatus: string(result.RefundStatus),
		Amount:       result.Amount,
	})
}

func pathID(c echo.Context) (kernel.UUID, bool) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, false
	}
	return id, true
}
