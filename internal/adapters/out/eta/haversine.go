// Package eta estimates delivery windows from straight-line distances.
package eta

import (
	"context"
	"fmt"
	"math"

	"fulfillment/internal/core/ports"
)

const (
	DefaultSpeedKmh = 20.0

	// The window widens with trip length but never below minSlackMinutes.
	slackRatio      = 0.3
	minSlackMinutes = 5
)

// HaversineEstimator implements ports.ETAEstimator. The trip is
// partner -> restaurant -> customer at a constant average speed.
type HaversineEstimator struct {
	speedKmh float64
}

func NewHaversineEstimator(speedKmh float64) HaversineEstimator {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return HaversineEstimator{speedKmh: speedKmh}
}

func (e HaversineEstimator) Estimate(_ context.Context, route ports.Route) (int, int, error) {
	toRestaurant, err := route.Partner.DistanceKm(route.Restaurant)
	if err != nil {
		return 0, 0, fmt.Errorf("partner to restaurant: %w", err)
	}
	toCustomer, err := route.Restaurant.DistanceKm(route.Customer)
	if err != nil {
		return 0, 0, fmt.Errorf("restaurant to customer: %w", err)
	}

	travel := (toRestaurant + toCustomer) / e.speedKmh * 60
	minMinutes := max(1, int(math.Round(travel)))
	slack := max(minSlackMinutes, int(math.Ceil(travel*slackRatio)))
	return minMinutes, minMinutes + slack, nil
}
