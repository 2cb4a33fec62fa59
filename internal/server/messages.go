package server

import (
	"encoding/json"

	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/wizard"
)

// ClientMessage is the envelope for messages received over the wire.
type ClientMessage struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the envelope for messages pushed to the client.
type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// SessionData announces the session created for a new connection.
type SessionData struct {
	SessionID string      `json:"session_id"`
	Mode      SessionMode `json:"mode"`
}

// ErrorData carries a structured wire error.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// indexedUnit carries a unit edit targeting one list position.
type indexedUnit struct {
	Index int             `json:"index"`
	Unit  draft.UnitDraft `json:"unit"`
}

// indexedListing carries a listing edit targeting one list position.
type indexedListing struct {
	Index   int                `json:"index"`
	Listing draft.ListingDraft `json:"listing"`
}

// indexOnly targets a list position for remove/sync actions.
type indexOnly struct {
	Index int `json:"index"`
}

// gotoData names the step for a direct jump.
type gotoData struct {
	Step wizard.Step `json:"step"`
}

// navigateData reports the outcome of a navigation request.
type navigateData struct {
	Moved bool `json:"moved"`
}
