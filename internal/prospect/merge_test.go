// internal/prospect/merge_test.go
package prospect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-concierge/internal/extract"
	"lease-concierge/internal/models"
)

func TestMerge_MonotonicByDefault(t *testing.T) {
	rec := &models.ProspectRecord{Email: "first@example.com"}

	changed := Merge(rec, []extract.Candidate{
		{Field: models.FieldEmail, Value: "second@example.com"},
	})

	assert.Empty(t, changed)
	assert.Equal(t, "first@example.com", rec.Email)
}

func TestMerge_ExplicitRestatementReplaces(t *testing.T) {
	rec := &models.ProspectRecord{Email: "first@example.com"}

	changed := Merge(rec, []extract.Candidate{
		{Field: models.FieldEmail, Value: "second@example.com", Explicit: true},
	})

	assert.Equal(t, []models.FieldType{models.FieldEmail}, changed)
	assert.Equal(t, "second@example.com", rec.Email)
}

func TestMerge_StudioZeroCountsAsSet(t *testing.T) {
	rec := &models.ProspectRecord{}

	changed := Merge(rec, []extract.Candidate{
		{Field: models.FieldBeds, Value: "0"},
	})

	require.Equal(t, []models.FieldType{models.FieldBeds}, changed)
	require.NotNil(t, rec.BedsWanted)
	assert.Equal(t, 0, *rec.BedsWanted)
	assert.True(t, rec.FieldSet(models.FieldBeds))

	// A later non-explicit beds candidate must not overwrite the studio choice.
	changed = Merge(rec, []extract.Candidate{
		{Field: models.FieldBeds, Value: "2"},
	})
	assert.Empty(t, changed)
	assert.Equal(t, 0, *rec.BedsWanted)
}

func TestMerge_BedsOutOfRangeRejected(t *testing.T) {
	rec := &models.ProspectRecord{}

	changed := Merge(rec, []extract.Candidate{
		{Field: models.FieldBeds, Value: "7"},
	})

	assert.Empty(t, changed)
	assert.Nil(t, rec.BedsWanted)
}

func TestMerge_Idempotent(t *testing.T) {
	rec := &models.ProspectRecord{}
	cands := []extract.Candidate{
		{Field: models.FieldName, Value: "Jane Doe"},
		{Field: models.FieldPhone, Value: "(555) 123-4567"},
	}

	first := Merge(rec, cands)
	second := Merge(rec, cands)

	assert.Len(t, first, 2)
	assert.Empty(t, second)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "(555) 123-4567", rec.Phone)
}

func TestMissingFields_CanonicalOrder(t *testing.T) {
	beds := 2
	tests := []struct {
		name    string
		record  models.ProspectRecord
		missing []models.FieldType
	}{
		{
			name:    "empty record misses everything",
			record:  models.ProspectRecord{},
			missing: models.RequiredFields,
		},
		{
			name:    "partial record",
			record:  models.ProspectRecord{Name: "Jane", Phone: "(555) 123-4567"},
			missing: []models.FieldType{models.FieldEmail, models.FieldMoveIn, models.FieldBeds},
		},
		{
			name: "complete record",
			record: models.ProspectRecord{
				Name: "Jane", Email: "j@example.com", Phone: "(555) 123-4567",
				MoveInDate: "March 2026", BedsWanted: &beds,
			},
			missing: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, MissingFields(&tt.record))
			assert.Equal(t, len(tt.missing) == 0, Complete(&tt.record))
		})
	}
}
