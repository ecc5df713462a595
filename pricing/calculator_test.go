package pricing

import (
	"context"
	"errors"
	"testing"

	"hav-jeang-api/geo"
	"hav-jeang-api/models"
)

// fakeDistancer returns canned distances keyed by destination latitude.
type fakeDistancer struct {
	byLat map[float64]float64
	err   error
	calls int
}

func (f *fakeDistancer) DistanceKm(_ context.Context, _, to geo.Point) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.byLat[to.Lat], nil
}

func ptr(v float64) *float64 { return &v }

func mechanicAt(id uint, lat, lng float64) models.User {
	return models.User{ID: id, Role: models.RoleMechanic, Lat: ptr(lat), Lng: ptr(lng)}
}

func TestComputeTripAndTotal(t *testing.T) {
	// Customer at (11.556, 104.928), mechanic at (11.560, 104.930),
	// routed distance 2.0 km, $2/km rate, one $10 service.
	fake := &fakeDistancer{byLat: map[float64]float64{11.560: 2.0}}
	calc := NewCalculator(fake, 2.0)

	services := []models.Service{
		{ID: 1, Name: "Tire change", Price: 10, Mechanic: mechanicAt(7, 11.560, 104.930)},
	}

	quote, err := calc.ComputeTripAndTotal(context.Background(), geo.Point{Lat: 11.556, Lng: 104.928}, services)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TripDistanceKm != 2.0 {
		t.Errorf("trip distance = %v, want 2.0", quote.TripDistanceKm)
	}
	if quote.TripPrice != 4.0 {
		t.Errorf("trip price = %v, want 4.00", quote.TripPrice)
	}
	if quote.TotalPrice != 14.0 {
		t.Errorf("total price = %v, want 14.00", quote.TotalPrice)
	}
}

func TestComputeTripAndTotal_NearestMechanicAggregation(t *testing.T) {
	fake := &fakeDistancer{byLat: map[float64]float64{10.0: 8.5, 20.0: 3.25}}
	calc := NewCalculator(fake, 2.0)

	services := []models.Service{
		{ID: 1, Price: 10, Mechanic: mechanicAt(1, 10.0, 0)},
		{ID: 2, Price: 5, Mechanic: mechanicAt(2, 20.0, 0)},
	}

	quote, err := calc.ComputeTripAndTotal(context.Background(), geo.Point{}, services)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The nearest mechanic's distance sets the trip fee
	if quote.TripDistanceKm != 3.25 {
		t.Errorf("trip distance = %v, want 3.25", quote.TripDistanceKm)
	}
	if quote.TotalPrice != 3.25*2.0+15 {
		t.Errorf("total price = %v, want %v", quote.TotalPrice, 3.25*2.0+15)
	}
	if fake.calls != 2 {
		t.Errorf("expected one lookup per mechanic, got %d", fake.calls)
	}
}

func TestComputeTripAndTotal_FractionalDistanceRounding(t *testing.T) {
	// Real routing responses carry sub-cent precision; the quoted trip
	// price must still equal the quoted distance times the rate.
	fake := &fakeDistancer{byLat: map[float64]float64{10.0: 2.375}}
	calc := NewCalculator(fake, 2.0)

	services := []models.Service{
		{ID: 1, Price: 10, Mechanic: mechanicAt(1, 10.0, 0)},
	}

	quote, err := calc.ComputeTripAndTotal(context.Background(), geo.Point{}, services)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TripDistanceKm != 2.38 {
		t.Errorf("trip distance = %v, want 2.38", quote.TripDistanceKm)
	}
	if quote.TripPrice != 4.76 {
		t.Errorf("trip price = %v, want 4.76", quote.TripPrice)
	}
	if got, want := quote.TripPrice, quote.TripDistanceKm*2.0; got != want {
		t.Errorf("trip price %v != quoted distance x rate %v", got, want)
	}
	if quote.TotalPrice != 14.76 {
		t.Errorf("total price = %v, want 14.76", quote.TotalPrice)
	}
}

func TestComputeTripAndTotal_OneLookupPerDistinctMechanic(t *testing.T) {
	fake := &fakeDistancer{byLat: map[float64]float64{10.0: 1.0}}
	calc := NewCalculator(fake, 2.0)

	shared := mechanicAt(1, 10.0, 0)
	services := []models.Service{
		{ID: 1, Price: 10, Mechanic: shared},
		{ID: 2, Price: 20, Mechanic: shared},
	}

	if _, err := calc.ComputeTripAndTotal(context.Background(), geo.Point{}, services); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("expected a single lookup for a shared mechanic, got %d", fake.calls)
	}
}

func TestComputeTripAndTotal_MissingLocationFailsFast(t *testing.T) {
	fake := &fakeDistancer{byLat: map[float64]float64{10.0: 1.0}}
	calc := NewCalculator(fake, 2.0)

	services := []models.Service{
		{ID: 1, Price: 10, Mechanic: mechanicAt(1, 10.0, 0)},
		{ID: 2, Name: "Battery jump", Price: 5, Mechanic: models.User{ID: 2, Role: models.RoleMechanic}},
	}

	_, err := calc.ComputeTripAndTotal(context.Background(), geo.Point{}, services)
	var missing *MissingLocationError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingLocationError, got %v", err)
	}
	if missing.ServiceID != 2 {
		t.Errorf("offending service = %d, want 2", missing.ServiceID)
	}
	if fake.calls != 0 {
		t.Errorf("expected no distance lookups before validation, got %d", fake.calls)
	}
}

func TestComputeTripAndTotal_ProviderFailureFailsWhole(t *testing.T) {
	fake := &fakeDistancer{err: errors.New("timeout")}
	calc := NewCalculator(fake, 2.0)

	services := []models.Service{
		{ID: 1, Price: 10, Mechanic: mechanicAt(1, 10.0, 0)},
	}

	_, err := calc.ComputeTripAndTotal(context.Background(), geo.Point{}, services)
	if !errors.Is(err, ErrDistanceUnavailable) {
		t.Fatalf("expected ErrDistanceUnavailable, got %v", err)
	}
}

func TestComputeTripAndTotal_EmptySelection(t *testing.T) {
	calc := NewCalculator(&fakeDistancer{}, 2.0)
	if _, err := calc.ComputeTripAndTotal(context.Background(), geo.Point{}, nil); err == nil {
		t.Fatal("expected error for empty service selection")
	}
}
