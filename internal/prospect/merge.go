// internal/prospect/merge.go

// Package prospect applies extracted field candidates to a prospect record and
// evaluates completeness against the required field set.
package prospect

import (
	"strconv"

	"lease-concierge/internal/extract"
	"lease-concierge/internal/models"
)

// Merge folds candidates into the record. Merging is monotonic: a field that
// already holds a value keeps it unless the candidate is an explicit
// restatement. Returns the list of fields that actually changed.
func Merge(record *models.ProspectRecord, cands []extract.Candidate) []models.FieldType {
	var changed []models.FieldType
	for _, c := range cands {
		if record.FieldSet(c.Field) && !c.Explicit {
			continue
		}
		if apply(record, c) {
			changed = append(changed, c.Field)
		}
	}
	return changed
}

func apply(record *models.ProspectRecord, c extract.Candidate) bool {
	switch c.Field {
	case models.FieldName:
		if record.Name == c.Value {
			return false
		}
		record.Name = c.Value
	case models.FieldEmail:
		if record.Email == c.Value {
			return false
		}
		record.Email = c.Value
	case models.FieldPhone:
		if record.Phone == c.Value {
			return false
		}
		record.Phone = c.Value
	case models.FieldMoveIn:
		if record.MoveInDate == c.Value {
			return false
		}
		record.MoveInDate = c.Value
	case models.FieldBeds:
		n, err := strconv.Atoi(c.Value)
		if err != nil || n < 0 || n > 4 {
			return false
		}
		if record.BedsWanted != nil && *record.BedsWanted == n {
			return false
		}
		record.BedsWanted = &n
	default:
		return false
	}
	return true
}

// MissingFields returns the required fields not yet collected, in canonical
// order. An empty result means the record is complete and booking may begin.
func MissingFields(record *models.ProspectRecord) []models.FieldType {
	var missing []models.FieldType
	for _, ft := range models.RequiredFields {
		if !record.FieldSet(ft) {
			missing = append(missing, ft)
		}
	}
	return missing
}

// Complete reports whether every required field has a value.
func Complete(record *models.ProspectRecord) bool {
	return len(MissingFields(record)) == 0
}

// Prompt returns the question to ask for the first missing field.
func Prompt(ft models.FieldType) string {
	switch ft {
	case models.FieldName:
		return "May I have your name?"
	case models.FieldEmail:
		return "What email address should I use for your tour confirmation?"
	case models.FieldPhone:
		return "What's the best phone number to reach you?"
	case models.FieldMoveIn:
		return "When are you hoping to move in?"
	case models.FieldBeds:
		return "How many bedrooms are you looking for? We have studios through 4-bedroom units."
	default:
		return "Could you tell me a bit more about what you're looking for?"
	}
}
