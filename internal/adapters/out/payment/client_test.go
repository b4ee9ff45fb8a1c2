package payment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/adapters/out/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGateway_CreateCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 24000, body["amount"], 0)
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "ORD-1A2B3C4D", body["receipt"])

		_, _ = w.Write([]byte(`{"id":"order_9A33XWu170gUtm"}`))
	}))
	defer server.Close()

	gateway := payment.NewHTTPGateway(server.URL+"/", "key_id", "key_secret")
	id, err := gateway.CreateCharge(t.Context(), 24000, "INR", "ORD-1A2B3C4D")

	require.NoError(t, err)
	assert.Equal(t, "order_9A33XWu170gUtm", id)
}

func TestHTTPGateway_CreateRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/pay_29QQoUBi66xm2f/refund", r.URL.Path)

		var body struct {
			Amount int64             `json:"amount"`
			Notes  map[string]string `json:"notes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(2750), body.Amount)
		assert.Equal(t, "ORD-1A2B3C4D", body.Notes["order_number"])

		_, _ = w.Write([]byte(`{"id":"rfnd_FP8QHiV938haTz"}`))
	}))
	defer server.Close()

	gateway := payment.NewHTTPGateway(server.URL, "key_id", "key_secret")
	id, err := gateway.CreateRefund(t.Context(), "pay_29QQoUBi66xm2f", 2750,
		map[string]string{"order_number": "ORD-1A2B3C4D"})

	require.NoError(t, err)
	assert.Equal(t, "rfnd_FP8QHiV938haTz", id)
}

func TestHTTPGateway_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount is invalid"}}`))
	}))
	defer server.Close()

	gateway := payment.NewHTTPGateway(server.URL, "key_id", "key_secret")
	_, err := gateway.CreateRefund(t.Context(), "pay_1", 0, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "The amount is invalid")
}

func TestHTTPGateway_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	gateway := payment.NewHTTPGateway(server.URL, "key_id", "key_secret")
	_, err := gateway.CreateCharge(t.Context(), 100, "INR", "ORD-1")
	require.Error(t, err)
}

func TestHTTPGateway_VerifyCharge(t *testing.T) {
	gateway := payment.NewHTTPGateway("http://unused", "key_id", "key_secret")
	signature := payment.Sign("key_secret", "order_1", "pay_1")

	tests := []struct {
		name      string
		chargeID  string
		paymentID string
		signature string
		want      bool
	}{
		{"should accept a matching signature", "order_1", "pay_1", signature, true},
		{"should reject a signature for another payment", "order_1", "pay_2", signature, false},
		{"should reject a tampered signature", "order_1", "pay_1", signature[:len(signature)-1] + "x", false},
		{"should reject an empty signature", "order_1", "pay_1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := gateway.VerifyCharge(t.Context(), tt.chargeID, tt.paymentID, tt.signature)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
