// internal/common/validation/schema.go

// Package validation validates inbound chat API payloads against JSON schemas.
package validation

import (
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// turnRequestSchema constrains the chat turn payload: a required non-empty
// message and an optional session ID.
var turnRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"message": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"sessionId": map[string]interface{}{
			"type": "string",
		},
	},
	"required":             []interface{}{"message"},
	"additionalProperties": false,
}

// ValidateTurnRequest checks a decoded chat turn payload against the schema.
func ValidateTurnRequest(payload map[string]interface{}) error {
	return validate(turnRequestSchema, payload)
}

func validate(schemaMap, data map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("request validation failed: %v", errs)
	}
	return nil
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
)

// ValidateEmail validates email format.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
