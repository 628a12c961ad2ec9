// internal/models/session.go
package models

import "time"

// State tracks where a conversation is in the lead qualification flow.
type State string

const (
	StateGreeting             State = "greeting"
	StateCollectingFields     State = "collecting_fields"
	StatePresentingOptions    State = "presenting_options"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateBookingConfirmed     State = "booking_confirmed"
	StateBookingFailed        State = "booking_failed"
)

// Terminal reports whether the state ends the booking flow. StateBookingFailed
// is terminal but recoverable: a later complete-data turn re-enters the flow.
func (s State) Terminal() bool {
	return s == StateBookingConfirmed || s == StateBookingFailed
}

// BookingOutcome records how a session's booking attempt ended.
type BookingOutcome string

const (
	OutcomeUnset     BookingOutcome = ""
	OutcomeConfirmed BookingOutcome = "confirmed"
	OutcomeFailed    BookingOutcome = "failed"
)

// Turn is a single utterance in the conversation log.
type Turn struct {
	Sender    string    `json:"sender"` // "user" or "bot"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the complete per-prospect conversation state. It is owned
// exclusively by the engine; stores only serialize it.
type Session struct {
	ID                string              `json:"id"`
	State             State               `json:"state"`
	Prospect          ProspectRecord      `json:"prospect"`
	Turns             []Turn              `json:"turns"`
	SelectedUnitIDs   []string            `json:"selectedUnitIds"`
	BookingOutcome    BookingOutcome      `json:"bookingOutcome,omitempty"`
	Confirmation      *ConfirmationRecord `json:"confirmation,omitempty"`
	NotificationError string              `json:"notificationError,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// AppendTurn adds a turn to the conversation log.
func (s *Session) AppendTurn(sender, text string, at time.Time) {
	s.Turns = append(s.Turns, Turn{Sender: sender, Text: text, Timestamp: at})
}

// SelectUnit adds a unit to the ordered selection set. Returns false if the
// unit was already selected.
func (s *Session) SelectUnit(unitID string) bool {
	for _, id := range s.SelectedUnitIDs {
		if id == unitID {
			return false
		}
	}
	s.SelectedUnitIDs = append(s.SelectedUnitIDs, unitID)
	return true
}

// DeselectUnit removes a unit from the selection set. Returns false if the
// unit was not selected.
func (s *Session) DeselectUnit(unitID string) bool {
	for i, id := range s.SelectedUnitIDs {
		if id == unitID {
			s.SelectedUnitIDs = append(s.SelectedUnitIDs[:i], s.SelectedUnitIDs[i+1:]...)
			return true
		}
	}
	return false
}

// HasSelected reports whether a unit is in the selection set.
func (s *Session) HasSelected(unitID string) bool {
	for _, id := range s.SelectedUnitIDs {
		if id == unitID {
			return true
		}
	}
	return false
}
