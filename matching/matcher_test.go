package matching

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"hav-jeang-api/geo"
	"hav-jeang-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:matcher_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Service{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func ptr(v float64) *float64 { return &v }

// mapDistancer returns canned distances keyed by destination latitude and
// can fail for selected destinations.
type mapDistancer struct {
	byLat  map[float64]float64
	failAt map[float64]bool
}

func (m mapDistancer) DistanceKm(_ context.Context, _, to geo.Point) (float64, error) {
	if m.failAt[to.Lat] {
		return 0, errors.New("provider unavailable")
	}
	return m.byLat[to.Lat], nil
}

func seedMechanic(t *testing.T, db *gorm.DB, name string, lat, lng *float64) models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleMechanic,
		Lat:          lat,
		Lng:          lng,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed mechanic %s: %v", name, err)
	}
	return u
}

func TestFindNearby_FiltersAndSorts(t *testing.T) {
	db := newTestDB(t)
	seedMechanic(t, db, "far", ptr(30.0), ptr(0))
	seedMechanic(t, db, "near", ptr(10.0), ptr(0))
	seedMechanic(t, db, "mid", ptr(20.0), ptr(0))

	m := NewMatcher(db, mapDistancer{byLat: map[float64]float64{10.0: 1.2, 20.0: 3.7, 30.0: 9.9}})

	matches, err := m.FindNearby(context.Background(), geo.Point{}, 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches within 5 km, got %d", len(matches))
	}
	if matches[0].Mechanic.Name != "near" || matches[1].Mechanic.Name != "mid" {
		t.Errorf("wrong order: %s, %s", matches[0].Mechanic.Name, matches[1].Mechanic.Name)
	}
	if matches[0].DistanceKm > matches[1].DistanceKm {
		t.Errorf("results not sorted ascending: %v > %v", matches[0].DistanceKm, matches[1].DistanceKm)
	}
	for _, match := range matches {
		if match.DistanceKm > 5.0 {
			t.Errorf("mechanic %s beyond radius: %v km", match.Mechanic.Name, match.DistanceKm)
		}
	}
}

func TestFindNearby_SkipsMechanicsWithoutLocation(t *testing.T) {
	db := newTestDB(t)
	seedMechanic(t, db, "located", ptr(10.0), ptr(0))
	seedMechanic(t, db, "nowhere", nil, nil)
	seedMechanic(t, db, "halfway", ptr(10.0), nil)

	m := NewMatcher(db, mapDistancer{byLat: map[float64]float64{10.0: 1.0}})

	matches, err := m.FindNearby(context.Background(), geo.Point{}, 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Mechanic.Name != "located" {
		t.Fatalf("expected only the located mechanic, got %v", matches)
	}
}

func TestFindNearby_ExcludesCustomers(t *testing.T) {
	db := newTestDB(t)
	customer := models.User{
		Name: "cust", Email: "cust@example.com", PasswordHash: "x",
		Role: models.RoleCustomer, Lat: ptr(10.0), Lng: ptr(0),
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	m := NewMatcher(db, mapDistancer{byLat: map[float64]float64{10.0: 1.0}})
	matches, err := m.FindNearby(context.Background(), geo.Point{}, 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("customers must never match, got %v", matches)
	}
}

func TestFindNearby_PartialProviderFailure(t *testing.T) {
	db := newTestDB(t)
	seedMechanic(t, db, "ok", ptr(10.0), ptr(0))
	seedMechanic(t, db, "flaky", ptr(20.0), ptr(0))

	m := NewMatcher(db, mapDistancer{
		byLat:  map[float64]float64{10.0: 1.0, 20.0: 2.0},
		failAt: map[float64]bool{20.0: true},
	})

	matches, err := m.FindNearby(context.Background(), geo.Point{}, 5.0)
	if err != nil {
		t.Fatalf("a per-candidate failure must not fail the search: %v", err)
	}
	if len(matches) != 1 || matches[0].Mechanic.Name != "ok" {
		t.Fatalf("expected the failing candidate to be dropped, got %v", matches)
	}
}

func TestFindNearby_TieBreakByMechanicID(t *testing.T) {
	db := newTestDB(t)
	a := seedMechanic(t, db, "a", ptr(10.0), ptr(0))
	b := seedMechanic(t, db, "b", ptr(10.0), ptr(1))

	m := NewMatcher(db, mapDistancer{byLat: map[float64]float64{10.0: 2.0}})
	matches, err := m.FindNearby(context.Background(), geo.Point{}, 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected both mechanics, got %d", len(matches))
	}
	if matches[0].Mechanic.ID != a.ID || matches[1].Mechanic.ID != b.ID {
		t.Errorf("tie not broken by ID: got %d then %d", matches[0].Mechanic.ID, matches[1].Mechanic.ID)
	}
}
