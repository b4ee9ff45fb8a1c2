package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	dbDown := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "order not found",
			err:      errs.NewObjectNotFoundError("order", "ORD-1A2B3C4D"),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: ORD-1A2B3C4D",
		},
		{
			name:     "settlement not found with cause",
			err:      errs.NewObjectNotFoundErrorWithCause("settlement", "ORD-1A2B3C4D", dbDown),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: param is: settlement, ID is: ORD-1A2B3C4D (cause: connection refused)",
		},
		{
			name:     "invalid payment method",
			err:      errs.NewValueIsInvalidError("payment method"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: payment method",
		},
		{
			name:     "invalid coupon with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("coupon", errors.New("expired")),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: coupon (cause: expired)",
		},
		{
			name:     "quantity out of range",
			err:      errs.NewValueIsOutOfRangeError("quantity", 0, 1, 99),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is out of range: 0 is quantity, min value is 1, max value is 99",
		},
		{
			name:     "latitude out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("lat", 91.5, -90, 90, errors.New("not WGS84")),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is out of range: 91.5 is lat, min value is -90, max value is 90 (cause: not WGS84)",
		},
		{
			name:     "missing address",
			err:      errs.NewValueIsRequiredError("address"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: address",
		},
		{
			name:     "missing partner with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("partner id", errors.New("pickup")),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: partner id (cause: pickup)",
		},
		{
			name:     "stale order",
			err:      errs.NewVersionIsInvalidError("order ORD-1A2B3C4D"),
			sentinel: errs.ErrVersionIsInvalid,
			message:  "version is invalid: order ORD-1A2B3C4D",
		},
		{
			name:     "stale settlement with cause",
			err:      errs.NewVersionIsInvalidErrorWithCause("settlement", errors.New("stale version 3")),
			sentinel: errs.ErrVersionIsInvalid,
			message:  "version is invalid: settlement (cause: stale version 3)",
		},
		{
			name:     "transition between statuses",
			err:      errs.NewInvalidTransitionError("delivered", "preparing"),
			sentinel: errs.ErrInvalidTransition,
			message:  "invalid transition: delivered -> preparing",
		},
		{
			name:     "guarded action",
			err:      errs.NewInvalidActionError("accept", "ready"),
			sentinel: errs.ErrInvalidTransition,
			message:  "invalid transition: cannot accept an order in ready status",
		},
		{
			name:     "gateway failure",
			err:      errs.NewGatewayError("create refund", errors.New("connection reset")),
			sentinel: errs.ErrGateway,
			message:  "gateway error: create refund (cause: connection reset)",
		},
		{
			name:     "gateway failure without cause",
			err:      errs.NewGatewayError("verify charge", nil),
			sentinel: errs.ErrGateway,
			message:  "gateway error: verify charge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestErrorsDoNotMatchOtherSentinels(t *testing.T) {
	err := errs.NewValueIsInvalidError("status")

	assert.NotErrorIs(t, err, errs.ErrValueIsRequired)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
	assert.NotErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := errors.Join(
		errs.NewValueIsRequiredError("user id"),
		errs.NewValueIsOutOfRangeError("quantity", -1, 1, 99),
	)

	require.ErrorIs(t, wrapped, errs.ErrValueIsRequired)
	require.ErrorIs(t, wrapped, errs.ErrValueIsOutOfRange)

	var gwErr *errs.GatewayError
	require.ErrorAs(t, error(errs.NewGatewayError("create charge", nil)), &gwErr)
	assert.Equal(t, "create charge", gwErr.Operation)
}

func TestErrorMessagesAreSingleLine(t *testing.T) {
	outOfRange := errs.NewValueIsOutOfRangeError("address", "12 MG Road\nFlat 4", 1, 200)
	notFound := errs.NewObjectNotFoundError("order", "ORD-1\nORD-2")

	assert.NotContains(t, outOfRange.Error(), "\n")
	assert.Contains(t, outOfRange.Error(), "12 MG Road Flat 4")
	assert.NotContains(t, notFound.Error(), "\n")
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestReconciliationWarning(t *testing.T) {
	w := errs.NewReconciliationWarning("ORD-1A2B3C4D", stringer("215"), stringer("212"), stringer("3"))

	assert.Equal(t,
		"settlement legs do not reconcile: order ORD-1A2B3C4D expected 215, got 212 (delta 3)",
		w.Error())
	require.ErrorIs(t, w, errs.ErrReconciliationDiff)
}
