// internal/models/confirmation.go
package models

import "time"

// BookedUnit captures the details of one reserved unit inside a confirmation,
// with its own confirmation number for multi-unit bookings.
type BookedUnit struct {
	UnitID             string  `json:"unitId"`
	Beds               int     `json:"beds"`
	Baths              float64 `json:"baths"`
	Sqft               int     `json:"sqft"`
	Rent               int     `json:"rent"`
	ConfirmationNumber string  `json:"confirmationNumber"`
}

// ConfirmationRecord is the immutable tour confirmation built once a
// reservation succeeds and consumed by the notification dispatcher.
type ConfirmationRecord struct {
	ProspectName             string       `json:"prospectName"`
	ProspectEmail            string       `json:"prospectEmail"`
	ProspectPhone            string       `json:"prospectPhone"`
	Units                    []BookedUnit `json:"units"`
	PropertyAddress          string       `json:"propertyAddress"`
	TourDate                 string       `json:"tourDate"`
	TourTime                 string       `json:"tourTime"`
	MasterConfirmationNumber string       `json:"masterConfirmationNumber"`
	CreatedAt                time.Time    `json:"createdAt"`
}
