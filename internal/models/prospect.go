// internal/models/prospect.go
package models

// FieldType identifies one collectible prospect field.
type FieldType string

const (
	FieldName   FieldType = "name"
	FieldEmail  FieldType = "email"
	FieldPhone  FieldType = "phone"
	FieldMoveIn FieldType = "move_in_date"
	FieldBeds   FieldType = "beds_wanted"
)

// RequiredFields is the set of fields that must be collected before booking,
// in the order they are reported missing.
var RequiredFields = []FieldType{FieldName, FieldEmail, FieldPhone, FieldMoveIn, FieldBeds}

// ProspectRecord holds the contact and preference fields collected during the
// conversation. BedsWanted is a pointer so a studio preference (0) is
// distinguishable from "not yet provided".
type ProspectRecord struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	MoveInDate string `json:"moveInDate,omitempty"`
	BedsWanted *int   `json:"bedsWanted,omitempty"`
}

// FieldSet reports whether a field has a value. Presence check, not
// truthiness: BedsWanted of 0 counts as set.
func (r *ProspectRecord) FieldSet(ft FieldType) bool {
	switch ft {
	case FieldName:
		return r.Name != ""
	case FieldEmail:
		return r.Email != ""
	case FieldPhone:
		return r.Phone != ""
	case FieldMoveIn:
		return r.MoveInDate != ""
	case FieldBeds:
		return r.BedsWanted != nil
	default:
		return false
	}
}

// Get returns the current string form of a field, for merge decisions.
func (r *ProspectRecord) Get(ft FieldType) string {
	switch ft {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldMoveIn:
		return r.MoveInDate
	default:
		return ""
	}
}
