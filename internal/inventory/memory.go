// internal/inventory/memory.go
package inventory

import (
	"context"
	"sync"

	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/models"
)

// MemoryInventory is an in-process portfolio guarded by a single mutex.
// Reservation atomicity follows from holding the lock across the
// check-and-flip.
type MemoryInventory struct {
	mu     sync.RWMutex
	units  []models.Unit
	logger logger.Logger
}

// NewMemoryInventory creates a portfolio from the given units. The slice is
// copied so callers cannot mutate availability behind the lock.
func NewMemoryInventory(units []models.Unit, log logger.Logger) *MemoryInventory {
	owned := make([]models.Unit, len(units))
	copy(owned, units)
	return &MemoryInventory{units: owned, logger: log}
}

// NewSeededInventory creates a portfolio with the standard demo units:
// studios through 4-bedroom apartments, one 3-bedroom pre-reserved.
func NewSeededInventory(log logger.Logger) *MemoryInventory {
	return NewMemoryInventory(SeedUnits(), log)
}

// SeedUnits returns the demo portfolio of 18 units.
func SeedUnits() []models.Unit {
	return []models.Unit{
		{ID: "S104", Beds: 0, Baths: 1.0, Sqft: 450, Rent: 1500, Available: true},
		{ID: "S207", Beds: 0, Baths: 1.0, Sqft: 500, Rent: 1600, Available: true},
		{ID: "S310", Beds: 0, Baths: 1.0, Sqft: 475, Rent: 1550, Available: true},
		{ID: "A101", Beds: 1, Baths: 1.0, Sqft: 650, Rent: 1800, Available: true},
		{ID: "A205", Beds: 1, Baths: 1.0, Sqft: 700, Rent: 1900, Available: true},
		{ID: "A308", Beds: 1, Baths: 1.5, Sqft: 750, Rent: 2000, Available: true},
		{ID: "A412", Beds: 1, Baths: 1.0, Sqft: 675, Rent: 1850, Available: true},
		{ID: "B301", Beds: 2, Baths: 2.0, Sqft: 950, Rent: 2400, Available: true},
		{ID: "B402", Beds: 2, Baths: 2.0, Sqft: 1000, Rent: 2500, Available: true},
		{ID: "B503", Beds: 2, Baths: 2.5, Sqft: 1100, Rent: 2700, Available: true},
		{ID: "B604", Beds: 2, Baths: 2.0, Sqft: 975, Rent: 2450, Available: true},
		{ID: "C501", Beds: 3, Baths: 2.5, Sqft: 1200, Rent: 3200, Available: true},
		{ID: "C602", Beds: 3, Baths: 2.5, Sqft: 1250, Rent: 3300, Available: false},
		{ID: "C703", Beds: 3, Baths: 3.0, Sqft: 1350, Rent: 3500, Available: true},
		{ID: "C804", Beds: 3, Baths: 2.5, Sqft: 1225, Rent: 3250, Available: true},
		{ID: "D801", Beds: 4, Baths: 3.0, Sqft: 1600, Rent: 4200, Available: true},
		{ID: "D902", Beds: 4, Baths: 3.5, Sqft: 1750, Rent: 4500, Available: true},
		{ID: "D1003", Beds: 4, Baths: 3.0, Sqft: 1650, Rent: 4300, Available: true},
	}
}

func (m *MemoryInventory) Find(ctx context.Context, prefs models.Preferences) ([]models.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Unit
	for _, u := range m.units {
		if !u.Available {
			continue
		}
		if prefs.Beds != nil && u.Beds != *prefs.Beds {
			continue
		}
		out = append(out, u)
	}
	sortByRent(out)
	return out, nil
}

func (m *MemoryInventory) Available(ctx context.Context) ([]models.Unit, error) {
	return m.Find(ctx, models.Preferences{})
}

func (m *MemoryInventory) Get(ctx context.Context, unitID string) (models.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.units {
		if u.ID == unitID {
			return u, nil
		}
	}
	return models.Unit{}, ErrUnitNotFound
}

func (m *MemoryInventory) Reserve(ctx context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.units {
		if m.units[i].ID != unitID {
			continue
		}
		if !m.units[i].Available {
			if m.logger != nil {
				m.logger.Warn("reservation conflict", map[string]interface{}{
					"unit_id": unitID,
				})
			}
			return ErrAlreadyTaken
		}
		m.units[i].Available = false
		if m.logger != nil {
			m.logger.Info("unit reserved", map[string]interface{}{
				"unit_id": unitID,
			})
		}
		return nil
	}
	return ErrUnitNotFound
}

func (m *MemoryInventory) Alternatives(ctx context.Context, beds int) ([]models.AlternativeGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return groupAlternatives(m.units, beds), nil
}

// Release marks a unit available again. Used to roll back a reservation when a
// later step of a multi-unit booking fails.
func (m *MemoryInventory) Release(ctx context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.units {
		if m.units[i].ID == unitID {
			m.units[i].Available = true
			return nil
		}
	}
	return ErrUnitNotFound
}
