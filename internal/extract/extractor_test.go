// internal/extract/extractor_test.go
package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-concierge/internal/models"
)

func fieldsOf(cands []Candidate) map[models.FieldType]Candidate {
	m := make(map[models.FieldType]Candidate, len(cands))
	for _, c := range cands {
		m[c.Field] = c
	}
	return m
}

func TestExtract_MultiFieldSinglePass(t *testing.T) {
	cands := Extract("Hi, I'm Jane Doe, jane@example.com, 555-123-4567, March 2026, 2 bedrooms")
	got := fieldsOf(cands)

	require.Len(t, cands, 5)
	assert.Equal(t, "Jane Doe", got[models.FieldName].Value)
	assert.True(t, got[models.FieldName].Explicit)
	assert.Equal(t, "jane@example.com", got[models.FieldEmail].Value)
	assert.Equal(t, "(555) 123-4567", got[models.FieldPhone].Value)
	assert.Equal(t, "March 2026", got[models.FieldMoveIn].Value)
	assert.Equal(t, "2", got[models.FieldBeds].Value)
}

func TestExtract_PartClassification(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		field     models.FieldType
		value     string
	}{
		{"bare email", "jane@Example.COM", models.FieldEmail, "jane@example.com"},
		{"dashed phone", "555-123-4567", models.FieldPhone, "(555) 123-4567"},
		{"bare digits phone", "5551234567", models.FieldPhone, "(555) 123-4567"},
		{"eleven digit phone", "1-555-123-4567", models.FieldPhone, "(555) 123-4567"},
		{"iso date", "2026-03-01", models.FieldMoveIn, "2026-03-01"},
		{"month date", "early June", models.FieldMoveIn, "early June"},
		{"asap date", "ASAP", models.FieldMoveIn, "ASAP"},
		{"studio is zero beds", "studio", models.FieldBeds, "0"},
		{"studio apartment phrase", "a studio apartment", models.FieldBeds, "0"},
		{"digit with noun", "2 bedrooms", models.FieldBeds, "2"},
		{"word with noun", "two bedroom", models.FieldBeds, "2"},
		{"bare small number", "3", models.FieldBeds, "3"},
		{"br suffix", "1br", models.FieldBeds, "1"},
		{"plain name", "Jane Doe", models.FieldName, "Jane Doe"},
		{"hyphenated name", "Mary-Jane O'Brien", models.FieldName, "Mary-Jane O'Brien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := Extract(tt.utterance)
			got := fieldsOf(cands)
			c, ok := got[tt.field]
			require.True(t, ok, "expected %s in %v", tt.field, cands)
			assert.Equal(t, tt.value, c.Value)
		})
	}
}

func TestExtract_NoMatch(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"greeting hi", "hi"},
		{"greeting hello", "Hello"},
		{"greeting phrase", "good morning"},
		{"five beds rejected", "5 bedrooms"},
		{"nine digits not a phone", "555123456"},
		{"twelve digits not a phone", "555123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Extract(tt.utterance))
		})
	}
}

func TestExtract_GreetingWithContentKeepsContent(t *testing.T) {
	cands := Extract("hello, I need a studio")
	got := fieldsOf(cands)

	require.Contains(t, got, models.FieldBeds)
	assert.Equal(t, "0", got[models.FieldBeds].Value)
	assert.NotContains(t, got, models.FieldName)
}

func TestExtract_ExplicitRestatement(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		field     models.FieldType
		value     string
	}{
		{"email restatement", "actually my email is new.addr@example.com", models.FieldEmail, "new.addr@example.com"},
		{"phone restatement", "my phone is 555 987 6543", models.FieldPhone, "(555) 987-6543"},
		{"name restatement", "call me Sam", models.FieldName, "Sam"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fieldsOf(Extract(tt.utterance))
			c, ok := got[tt.field]
			require.True(t, ok)
			assert.Equal(t, tt.value, c.Value)
			assert.True(t, c.Explicit)
		})
	}
}

func TestExtract_EmailWinsPartOverPhone(t *testing.T) {
	got := fieldsOf(Extract("jane@example.com 5551234567"))
	require.Contains(t, got, models.FieldEmail)
	assert.Equal(t, "jane@example.com", got[models.FieldEmail].Value)

	phone, ok := SecondaryPhone("jane@example.com 5551234567")
	require.True(t, ok)
	assert.Equal(t, "(555) 123-4567", phone)
}

func TestExtract_DatePhrasesAreNotNames(t *testing.T) {
	got := fieldsOf(Extract("next month"))
	assert.NotContains(t, got, models.FieldName)
	assert.Contains(t, got, models.FieldMoveIn)
}

func TestExtract_ApartmentVocabularyIsNotAName(t *testing.T) {
	got := fieldsOf(Extract("looking for an apartment"))
	assert.NotContains(t, got, models.FieldName)
}
