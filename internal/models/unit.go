// internal/models/unit.go
package models

// Unit is a leasable apartment with a binary availability flag. Availability
// is mutated only through the inventory matcher's reserve operation.
type Unit struct {
	ID        string   `json:"unitId" db:"id"`
	Beds      int      `json:"beds" db:"beds"`
	Baths     float64  `json:"baths" db:"baths"`
	Sqft      int      `json:"sqft" db:"sqft"`
	Rent      int      `json:"rent" db:"rent"`
	Available bool     `json:"available" db:"available"`
	Floor     int      `json:"floor,omitempty" db:"floor"`
	Amenities []string `json:"amenities,omitempty" db:"amenities"`
}

// Preferences narrows an inventory search. A nil Beds matches all bedroom
// counts.
type Preferences struct {
	Beds *int
}

// AlternativeGroup aggregates an adjacent bedroom category offered when the
// requested one has no availability.
type AlternativeGroup struct {
	Beds    int `json:"beds"`
	Count   int `json:"count"`
	MinRent int `json:"minRent"`
	MaxRent int `json:"maxRent"`
	MinSqft int `json:"minSqft"`
	MaxSqft int `json:"maxSqft"`
}
