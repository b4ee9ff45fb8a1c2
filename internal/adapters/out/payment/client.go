// Package payment is the HTTP client of the external payment gateway.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPGateway implements ports.PaymentGateway against a REST gateway that
// authenticates with HTTP basic auth (key id / key secret).
type HTTPGateway struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewHTTPGateway(baseURL, keyID, keySecret string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createChargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createRefundRequest struct {
	Amount int64             `json:"amount"`
	Notes  map[string]string `json:"notes,omitempty"`
}

type entityResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateCharge opens a gateway order for amountMinor and returns its id.
func (g *HTTPGateway) CreateCharge(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	var resp entityResponse
	err := g.post(ctx, "/v1/orders", createChargeRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// VerifyCharge checks the checkout signature locally:
// hex(HMAC-SHA256(chargeID + "|" + paymentID, keySecret)).
func (g *HTTPGateway) VerifyCharge(_ context.Context, chargeID, paymentID, signature string) (bool, error) {
	if chargeID == "" || paymentID == "" || signature == "" {
		return false, nil
	}

	expected := Sign(g.keySecret, chargeID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

// CreateRefund refunds amountMinor of a captured payment.
func (g *HTTPGateway) CreateRefund(
	ctx context.Context,
	paymentID string,
	amountMinor int64,
	notes map[string]string,
) (string, error) {
	var resp entityResponse
	path := "/v1/payments/" + url.PathEscape(paymentID) + "/refund"
	if err := g.post(ctx, path, createRefundRequest{Amount: amountMinor, Notes: notes}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Sign computes the checkout signature the gateway hands to the client.
func Sign(secret, chargeID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(chargeID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr errorResponse
		if json.Unmarshal(raw, &gwErr) == nil && gwErr.Error.Description != "" {
			return fmt.Errorf("gateway returned %d: %s: %s", resp.StatusCode, gwErr.Error.Code, gwErr.Error.Description)
		}
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}
