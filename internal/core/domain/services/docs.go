// Package services holds the domain services of the fulfillment engine:
// logic that spans several aggregates or needs platform-wide policy.
//
//   - PricingCalculator prices a cart into an order.Pricing
//   - OrderDispatcher picks the nearest eligible delivery partner
//   - SettlementCalculator splits a paid order between restaurant, partner
//     and platform
//   - RefundPolicy classifies a cancellation and computes refund and
//     compensation
//
// All services are pure: they never touch persistence or gateways.
package services
