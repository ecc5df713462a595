package matching

import (
	"context"
	"sort"

	"hav-jeang-api/geo"
	"hav-jeang-api/models"

	"gorm.io/gorm"
)

// Match is a mechanic within range, annotated with routed distance.
type Match struct {
	Mechanic   models.User `json:"mechanic"`
	DistanceKm float64     `json:"distance_km"`
}

// Matcher finds mechanics near a customer. It scans every mechanic with a
// recorded location — O(mechanics), no spatial index — which is fine at the
// current scale; the contract would survive a bounding-box pre-filter later.
type Matcher struct {
	db        *gorm.DB
	distancer geo.RouteDistancer
}

func NewMatcher(db *gorm.DB, distancer geo.RouteDistancer) *Matcher {
	return &Matcher{db: db, distancer: distancer}
}

// FindNearby returns mechanics within maxDistanceKm of origin, sorted by
// ascending distance (mechanic ID breaks ties). A failed distance lookup
// drops that one candidate rather than failing the whole search, so flaky
// upstream conditions yield partial results.
func (m *Matcher) FindNearby(ctx context.Context, origin geo.Point, maxDistanceKm float64) ([]Match, error) {
	var mechanics []models.User
	err := m.db.WithContext(ctx).
		Where("role = ? AND lat IS NOT NULL AND lng IS NOT NULL", models.RoleMechanic).
		Find(&mechanics).Error
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(mechanics))
	for i := range mechanics {
		mech := mechanics[i]
		km, err := m.distancer.DistanceKm(ctx, origin, geo.Point{Lat: *mech.Lat, Lng: *mech.Lng})
		if err != nil {
			continue
		}
		if km <= maxDistanceKm {
			matches = append(matches, Match{Mechanic: mech, DistanceKm: km})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Mechanic.ID < matches[j].Mechanic.ID
	})
	return matches, nil
}
