package entity

import "github.com/google/uuid"

const EventTypeLinesAdd = "lines_add"

type LinesAddPayload struct {
	LinesAdded    []CartLineInput `json:"linesAdded"`
	LinesNotAdded []CartLineInput `json:"linesNotAdded,omitempty"`
}

// LinesAddEvent is the analytics event describing what a successful add-lines
// mutation actually persisted. Consumers deduplicate by ID: the transport may
// redeliver the same event, but each id must reach a listener at most once.
type LinesAddEvent struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload LinesAddPayload `json:"payload"`
}

// NewLinesAddEvent mints an event with a fresh globally-unique id.
func NewLinesAddEvent(linesAdded, linesNotAdded []CartLineInput) *LinesAddEvent {
	return &LinesAddEvent{
		Type: EventTypeLinesAdd,
		ID:   uuid.NewString(),
		Payload: LinesAddPayload{
			LinesAdded:    linesAdded,
			LinesNotAdded: linesNotAdded,
		},
	}
}
