// Package settlement holds the OrderSettlement aggregate: the escrow record
// that splits one customer payment between restaurant, delivery partner and
// platform, and books cancellations and refunds against it.
//
// The split itself is computed by services.SettlementCalculator and the
// refund outcome by services.RefundPolicy; this package only stores them and
// guards the refund status so that computing twice never double-counts and
// executing moves strictly pending -> initiated -> processed|failed.
package settlement
