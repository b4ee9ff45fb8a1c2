package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fhttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCreateOrder struct{ mock.Mock }

func (m *mockCreateOrder) Handle(ctx context.Context, c commands.CreateOrderCommand) (commands.CreateOrderResult, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(commands.CreateOrderResult), args.Error(1)
}

type mockUpdateStatus struct{ mock.Mock }

func (m *mockUpdateStatus) Handle(ctx context.Context, c commands.UpdateOrderStatusCommand) error {
	return m.Called(ctx, c).Error(0)
}

type mockAssign struct{ mock.Mock }

func (m *mockAssign) Handle(ctx context.Context, c commands.AssignPartnerCommand) (commands.AssignmentResult, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(commands.AssignmentResult), args.Error(1)
}

type mockCancel struct{ mock.Mock }

func (m *mockCancel) Handle(ctx context.Context, c commands.CancelOrderCommand) (commands.CancelOrderResult, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(commands.CancelOrderResult), args.Error(1)
}

type mockRegisterPartner struct{ mock.Mock }

func (m *mockRegisterPartner) Handle(ctx context.Context, c commands.RegisterPartnerCommand) error {
	return m.Called(ctx, c).Error(0)
}

type mockGetOrder struct{ mock.Mock }

func (m *mockGetOrder) Handle(ctx context.Context, q queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type mockGetUnassigned struct{ mock.Mock }

func (m *mockGetUnassigned) Handle(
	ctx context.Context,
	q queries.GetUnassignedOrdersQuery,
) ([]queries.GetUnassignedOrdersQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.GetUnassignedOrdersQueryResponse), args.Error(1)
}

func newEcho(handlers fhttp.Handlers) *echo.Echo {
	e := echo.New()
	fhttp.NewServer(handlers).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) fhttp.Error {
	t.Helper()
	var body fhttp.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const checkout = `{
	"user_id": "6f1c2a4e-9b0d-4d7e-8f11-2a3b4c5d6e7f",
	"restaurant": {
		"id": "0b6c8f0e-2f0a-4c55-9a53-7a4f3e1d2c1b",
		"name": "Tandoor Tales",
		"location": {"lat": 12.9716, "lng": 77.5946}
	},
	"items": [
		{"menu_item_id": "8d7e6f5a-4b3c-4d2e-9f10-1a2b3c4d5e6f", "name": "Paneer Tikka", "price": 100, "quantity": 2}
	],
	"address": {"text": "12 MG Road", "location": {"lat": 12.975, "lng": 77.606}},
	"payment_method": "cod"
}`

func TestServer_CreateOrder(t *testing.T) {
	handler := new(mockCreateOrder)
	orderID := kernel.NewUUID()
	handler.On("Handle", mock.Anything, mock.Anything).Return(commands.CreateOrderResult{
		OrderID:     orderID,
		OrderNumber: "ORD-1A2B3C4D",
		Pricing: order.Pricing{
			Subtotal:    kernel.MoneyFromInt(200),
			Discount:    kernel.ZeroMoney(),
			DeliveryFee: kernel.MoneyFromInt(25),
			PlatformFee: kernel.MoneyFromInt(5),
			Tax:         kernel.MoneyFromInt(10),
			Total:       kernel.MoneyFromInt(240),
		},
		Savings: kernel.ZeroMoney(),
	}, nil)

	rec := do(newEcho(fhttp.Handlers{CreateOrder: handler}), http.MethodPost, "/api/v1/orders", checkout)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body fhttp.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, orderID, body.OrderID)
	assert.Equal(t, "ORD-1A2B3C4D", body.OrderNumber)
	assert.True(t, body.Pricing.Total.Equal(kernel.MoneyFromInt(240)))

	command := handler.Calls[0].Arguments.Get(1).(commands.CreateOrderCommand)
	assert.Equal(t, order.PaymentCOD, command.Method())
	assert.Equal(t, order.ModeDelivery, command.Mode())
}

func TestServer_CreateOrder_InvalidInput(t *testing.T) {
	handler := new(mockCreateOrder)
	e := newEcho(fhttp.Handlers{CreateOrder: handler})

	t.Run("should reject malformed json", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/v1/orders", `{"items":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an empty cart", func(t *testing.T) {
		body := strings.Replace(checkout,
			`{"menu_item_id": "8d7e6f5a-4b3c-4d2e-9f10-1a2b3c4d5e6f", "name": "Paneer Tikka", "price": 100, "quantity": 2}`, "", 1)
		rec := do(e, http.MethodPost, "/api/v1/orders", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject coordinates out of range", func(t *testing.T) {
		body := strings.Replace(checkout, `"lat": 12.975`, `"lat": 123.0`, 1)
		rec := do(e, http.MethodPost, "/api/v1/orders", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"should map not found to 404", errs.NewObjectNotFoundError("order", "x"), http.StatusNotFound},
		{"should map invalid transition to 409", errs.NewInvalidTransitionError("delivered", "ready"), http.StatusConflict},
		{"should map version conflict to 409", errs.NewVersionIsInvalidError("order"), http.StatusConflict},
		{"should map validation to 400", order.ErrNotAssignedPartner, http.StatusBadRequest},
		{"should map gateway failure to 502", errs.NewGatewayError("create refund", errors.New("timeout")), http.StatusBadGateway},
		{"should hide unexpected errors", errors.New("connection reset by peer"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := new(mockUpdateStatus)
			handler.On("Handle", mock.Anything, mock.Anything).Return(tt.err)

			rec := do(newEcho(fhttp.Handlers{UpdateOrderStatus: handler}),
				http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/ready", "")

			assert.Equal(t, tt.want, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.want, body.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, body.Message, "connection reset")
			}
		})
	}
}

func TestServer_PickUpRequiresPartner(t *testing.T) {
	handler := new(mockUpdateStatus)
	handler.On("Handle", mock.Anything, mock.Anything).Return(nil)
	e := newEcho(fhttp.Handlers{UpdateOrderStatus: handler})
	orderPath := "/api/v1/orders/" + kernel.NewUUID().String()

	rec := do(e, http.MethodPost, orderPath+"/pickup", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	partnerID := kernel.NewUUID()
	rec = do(e, http.MethodPost, orderPath+"/pickup", `{"partner_id":"`+partnerID.String()+`"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	command := handler.Calls[0].Arguments.Get(1).(commands.UpdateOrderStatusCommand)
	assert.Equal(t, order.OutForDelivery, command.Target())
	require.NotNil(t, command.PartnerID())
	assert.Equal(t, partnerID, *command.PartnerID())
}

func TestServer_UpdateOrderStatus_UnknownStatus(t *testing.T) {
	handler := new(mockUpdateStatus)
	rec := do(newEcho(fhttp.Handlers{UpdateOrderStatus: handler}),
		http.MethodPatch, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"teleported"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_InvalidPathID(t *testing.T) {
	rec := do(newEcho(fhttp.Handlers{}), http.MethodPost, "/api/v1/orders/not-a-uuid/assign", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_AssignPartner_NoMatchIsNotAnError(t *testing.T) {
	handler := new(mockAssign)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.AssignmentResult{Outcome: commands.AssignmentNoMatch}, nil)

	rec := do(newEcho(fhttp.Handlers{AssignPartner: handler}),
		http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/assign", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body fhttp.AssignmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no_match", body.Outcome)
	assert.Nil(t, body.PartnerID)
}

func TestServer_RejectOrderCancelsAsRestaurant(t *testing.T) {
	handler := new(mockCancel)
	handler.On("Handle", mock.Anything, mock.Anything).Return(commands.CancelOrderResult{}, nil)

	rec := do(newEcho(fhttp.Handlers{CancelOrder: handler}),
		http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/reject", `{"reason":"out of paneer"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	command := handler.Calls[0].Arguments.Get(1).(commands.CancelOrderCommand)
	assert.Equal(t, order.ActorRestaurant, command.Actor())
	assert.Equal(t, "out of paneer", command.Reason())
}

func TestServer_GetOrder(t *testing.T) {
	handler := new(mockGetOrder)
	orderID := kernel.NewUUID()
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderQueryResponse{ID: orderID, Number: "ORD-1A2B3C4D", Status: "preparing"}, nil)

	rec := do(newEcho(fhttp.Handlers{GetOrder: handler}), http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"preparing"`)
	assert.Contains(t, rec.Body.String(), orderID.String())
}

func TestServer_GetUnassignedOrders(t *testing.T) {
	handler := new(mockGetUnassigned)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetUnassignedOrdersQuery) bool {
		return q.Limit() == 5
	})).Return([]queries.GetUnassignedOrdersQueryResponse{}, nil)
	e := newEcho(fhttp.Handlers{GetUnassignedOrders: handler})

	rec := do(e, http.MethodGet, "/api/v1/orders/unassigned?limit=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/orders/unassigned?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/orders/unassigned?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	handler.AssertNumberOfCalls(t, "Handle", 1)
}

func TestServer_RegisterPartner(t *testing.T) {
	handler := new(mockRegisterPartner)
	handler.On("Handle", mock.Anything, mock.Anything).Return(nil)

	rec := do(newEcho(fhttp.Handlers{RegisterPartner: handler}), http.MethodPost, "/api/v1/partners", `{"name":"Ravi"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body fhttp.RegisterPartnerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	command := handler.Calls[0].Arguments.Get(1).(commands.RegisterPartnerCommand)
	assert.Equal(t, command.PartnerID(), body.ID)
}
