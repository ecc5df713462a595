package geo

import (
	"context"
	"math"
	"testing"
)

func TestHaversine_SamePoint(t *testing.T) {
	if d := Haversine(11.556, 104.928, 11.556, 104.928); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// One degree of latitude is about 111 km
	d := Haversine(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("1 degree latitude = %v km, want ~111.19", d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Haversine(11.556, 104.928, 11.560, 104.930)
	b := Haversine(11.560, 104.930, 11.556, 104.928)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestHaversineProvider_NeverFails(t *testing.T) {
	p := HaversineProvider{}
	d, err := p.DistanceKm(context.Background(), Point{Lat: 11.556, Lng: 104.928}, Point{Lat: 11.560, Lng: 104.930})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d <= 0 {
		t.Errorf("expected positive distance, got %v", d)
	}
}
