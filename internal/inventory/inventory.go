// internal/inventory/inventory.go

// Package inventory manages the leasable unit portfolio: search by bedroom
// count, atomic reservation, and alternative suggestions when a category is
// sold out.
package inventory

import (
	"context"
	"errors"
	"sort"

	"lease-concierge/internal/models"
)

var (
	// ErrUnitNotFound is returned when a unit ID does not exist in the
	// portfolio.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrAlreadyTaken is returned when a reservation loses the race for a
	// unit. Callers treat it as a conflict, not a failure of the store.
	ErrAlreadyTaken = errors.New("unit already reserved")
)

// Inventory is the unit portfolio. Reserve is the only mutating operation and
// must be atomic: concurrent reservations of the same unit yield exactly one
// success.
type Inventory interface {
	// Find returns available units matching the preferences, cheapest first.
	Find(ctx context.Context, prefs models.Preferences) ([]models.Unit, error)

	// Available returns every available unit, cheapest first.
	Available(ctx context.Context) ([]models.Unit, error)

	// Get returns a unit by ID regardless of availability.
	Get(ctx context.Context, unitID string) (models.Unit, error)

	// Reserve atomically flips a unit from available to reserved. Returns
	// ErrAlreadyTaken if the unit was reserved first, ErrUnitNotFound if the
	// ID is unknown.
	Reserve(ctx context.Context, unitID string) error

	// Alternatives aggregates available units in other bedroom categories,
	// nearest category first.
	Alternatives(ctx context.Context, beds int) ([]models.AlternativeGroup, error)
}

// groupAlternatives buckets available units by bedroom count, excluding the
// requested category, and orders groups by distance from the request.
func groupAlternatives(units []models.Unit, beds int) []models.AlternativeGroup {
	byBeds := map[int]*models.AlternativeGroup{}
	for _, u := range units {
		if !u.Available || u.Beds == beds {
			continue
		}
		g, ok := byBeds[u.Beds]
		if !ok {
			g = &models.AlternativeGroup{
				Beds:    u.Beds,
				MinRent: u.Rent, MaxRent: u.Rent,
				MinSqft: u.Sqft, MaxSqft: u.Sqft,
			}
			byBeds[u.Beds] = g
		}
		g.Count++
		if u.Rent < g.MinRent {
			g.MinRent = u.Rent
		}
		if u.Rent > g.MaxRent {
			g.MaxRent = u.Rent
		}
		if u.Sqft < g.MinSqft {
			g.MinSqft = u.Sqft
		}
		if u.Sqft > g.MaxSqft {
			g.MaxSqft = u.Sqft
		}
	}

	groups := make([]models.AlternativeGroup, 0, len(byBeds))
	for _, g := range byBeds {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		di, dj := absDiff(groups[i].Beds, beds), absDiff(groups[j].Beds, beds)
		if di != dj {
			return di < dj
		}
		return groups[i].Beds < groups[j].Beds
	})
	return groups
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func sortByRent(units []models.Unit) {
	sort.Slice(units, func(i, j int) bool {
		if units[i].Rent != units[j].Rent {
			return units[i].Rent < units[j].Rent
		}
		return units[i].ID < units[j].ID
	})
}
