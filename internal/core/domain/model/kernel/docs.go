// Package kernel holds the value objects shared by every aggregate of the
// fulfillment core.
//
//   - UUID: canonical identifier, parsed once at the adapter boundary
//   - Location: validated latitude/longitude with haversine distance
//   - Polygon: a zone boundary with an even-odd point-in-polygon test
//   - Money: decimal currency amount with whole-unit rounding and minor-unit conversion
//
// Together Location and Polygon form the geo matcher used by dispatch. All
// values are immutable and safe for concurrent use.
package kernel
