// internal/responder/responder.go

// Package responder phrases replies to the prospect. The engine owns every
// state decision; the responder only turns the decided outcome into natural
// text, and the engine substitutes deterministic fallback copy whenever the
// responder fails.
package responder

import (
	"context"

	"lease-concierge/internal/models"
)

// ReplyRequest carries the conversation context for phrasing one reply.
type ReplyRequest struct {
	Utterance     string                 `json:"message"`
	History       []models.Turn          `json:"history,omitempty"`
	Prospect      models.ProspectRecord  `json:"prospect"`
	MissingFields []models.FieldType     `json:"missingFields,omitempty"`
	Units         []models.Unit          `json:"units,omitempty"`
	Outcome       string                 `json:"outcome,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty"`
}

// Responder produces a natural-language reply for a decided turn outcome.
type Responder interface {
	Reply(ctx context.Context, req *ReplyRequest) (string, error)
}
