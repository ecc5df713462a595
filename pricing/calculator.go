package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"hav-jeang-api/geo"
	"hav-jeang-api/models"
)

// ErrDistanceUnavailable wraps any routing provider failure. Price
// correctness cannot be partial, so a single failed lookup fails the whole
// quote — there is no placeholder distance.
var ErrDistanceUnavailable = errors.New("trip distance unavailable")

// MissingLocationError reports a service whose mechanic has no coordinates.
// It is raised before any provider lookup happens.
type MissingLocationError struct {
	ServiceID   uint
	ServiceName string
}

func (e *MissingLocationError) Error() string {
	return fmt.Sprintf("service %d (%s): mechanic has no location on record", e.ServiceID, e.ServiceName)
}

// Quote is the priced outcome of a service selection.
type Quote struct {
	TripDistanceKm float64 `json:"trip_distance_km"`
	TripPrice      float64 `json:"trip_price"`
	TotalPrice     float64 `json:"total_price"`
}

// Calculator prices a service request: one trip fee derived from routed
// distance, plus the sum of the selected services' prices.
type Calculator struct {
	distancer geo.RouteDistancer
	perKmRate float64
}

func NewCalculator(distancer geo.RouteDistancer, perKmRate float64) *Calculator {
	return &Calculator{distancer: distancer, perKmRate: perKmRate}
}

// ComputeTripAndTotal prices the given non-empty service selection for a
// customer at origin. Each service must carry its preloaded mechanic.
//
// When the selection spans several mechanics the trip distance is the
// distance to the nearest one; one lookup is issued per distinct mechanic.
func (calc *Calculator) ComputeTripAndTotal(ctx context.Context, origin geo.Point, services []models.Service) (Quote, error) {
	if len(services) == 0 {
		return Quote{}, errors.New("no services selected")
	}

	// Validate every mechanic location up front so a missing profile is
	// reported before any distance lookup is spent.
	for i := range services {
		if !services[i].Mechanic.HasLocation() {
			return Quote{}, &MissingLocationError{
				ServiceID:   services[i].ID,
				ServiceName: services[i].Name,
			}
		}
	}

	var total float64
	shops := make(map[uint]geo.Point)
	for i := range services {
		total += services[i].Price
		m := &services[i].Mechanic
		shops[m.ID] = geo.Point{Lat: *m.Lat, Lng: *m.Lng}
	}

	nearest := math.MaxFloat64
	for _, shop := range shops {
		km, err := calc.distancer.DistanceKm(ctx, origin, shop)
		if err != nil {
			return Quote{}, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
		}
		if km < nearest {
			nearest = km
		}
	}

	// Price from the distance the quote reports, so trip price is always
	// exactly the quoted distance times the rate.
	tripKm := roundCents(nearest)
	tripPrice := roundCents(tripKm * calc.perKmRate)
	return Quote{
		TripDistanceKm: tripKm,
		TripPrice:      tripPrice,
		TotalPrice:     roundCents(tripPrice + total),
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
