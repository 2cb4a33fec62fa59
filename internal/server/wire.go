package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/identity"
	"github.com/openrentals/listingdesk/internal/persist"
	"github.com/openrentals/listingdesk/internal/wizard"
)

// WireHandler drives a wizard session over a single WebSocket: the client
// sends change and navigation messages, the server replies with the
// refreshed form state after every mutation.
type WireHandler struct {
	sessions *SessionManager
	coord    *persist.Coordinator
	loader   *persist.Loader
	ident    identity.Provider
	log      zerolog.Logger
}

// NewWireHandler creates a WireHandler with all dependencies.
func NewWireHandler(sessions *SessionManager, coord *persist.Coordinator, loader *persist.Loader, ident identity.Provider, log zerolog.Logger) *WireHandler {
	return &WireHandler{
		sessions: sessions,
		coord:    coord,
		loader:   loader,
		ident:    ident,
		log:      log,
	}
}

// ServeHTTP upgrades to WebSocket, opens a session per the query
// parameters (mode, property_id, listing_id), and runs the message loop.
func (h *WireHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Error().Err(err).Msg("wire: websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	sess, err := h.openSession(ctx, r)
	if err != nil {
		h.sendError(ctx, conn, "", "load_failed", err.Error())
		return
	}
	defer h.sessions.Remove(sess.ID)

	h.send(ctx, conn, ServerMessage{
		Type: "session",
		Data: SessionData{SessionID: sess.ID, Mode: sess.Mode},
	})
	h.sendState(ctx, conn, "", sess)

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				h.log.Debug().Int("status", int(websocket.CloseStatus(err))).Msg("wire: connection closed")
			}
			return
		}
		h.handle(ctx, conn, sess, msg)
	}
}

func (h *WireHandler) openSession(ctx context.Context, r *http.Request) (*Session, error) {
	q := r.URL.Query()
	switch SessionMode(q.Get("mode")) {
	case ModePropertyEdit:
		store, err := h.loader.LoadProperty(ctx, q.Get("property_id"))
		if err != nil {
			return nil, err
		}
		return h.sessions.Create(ModePropertyEdit, store), nil
	case ModeListingEdit:
		store, err := h.loader.LoadListing(ctx, q.Get("listing_id"))
		if err != nil {
			return nil, err
		}
		return h.sessions.Create(ModeListingEdit, store), nil
	default:
		return h.sessions.Create(ModeCreate, wizard.NewStore()), nil
	}
}

func (h *WireHandler) handle(ctx context.Context, conn *websocket.Conn, sess *Session, msg ClientMessage) {
	switch msg.Type {
	case "property_change":
		var d draft.PropertyDraft
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		sess.Do(func(store *wizard.Store) { store.OnPropertyChange(d) })
		h.sendState(ctx, conn, msg.ID, sess)
	case "unit_change":
		var d indexedUnit
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		sess.Do(func(store *wizard.Store) { store.OnUnitChange(d.Index, d.Unit) })
		h.sendState(ctx, conn, msg.ID, sess)
	case "listing_change":
		var d indexedListing
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		sess.Do(func(store *wizard.Store) { store.OnListingChange(d.Index, d.Listing) })
		h.sendState(ctx, conn, msg.ID, sess)
	case "add_unit":
		sess.Do(func(store *wizard.Store) { store.AddUnit() })
		h.sendState(ctx, conn, msg.ID, sess)
	case "remove_unit":
		var d indexOnly
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		sess.Do(func(store *wizard.Store) { store.RemoveUnit(d.Index) })
		h.sendState(ctx, conn, msg.ID, sess)
	case "sync_unit":
		var d indexOnly
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		sess.Do(func(store *wizard.Store) { store.SyncUnitAmenities(d.Index) })
		h.sendState(ctx, conn, msg.ID, sess)
	case "add_listing":
		sess.Do(func(store *wizard.Store) { store.AddListing() })
		h.sendState(ctx, conn, msg.ID, sess)
	case "remove_listing":
		var d indexOnly
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		sess.Do(func(store *wizard.Store) { store.RemoveListing(d.Index) })
		h.sendState(ctx, conn, msg.ID, sess)
	case "sync_listing":
		var d indexOnly
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		sess.Do(func(store *wizard.Store) { store.SyncListingAmenities(d.Index) })
		h.sendState(ctx, conn, msg.ID, sess)
	case "next":
		h.navigate(ctx, conn, sess, msg.ID, func(store *wizard.Store) bool { return store.Next() })
	case "prev":
		h.navigate(ctx, conn, sess, msg.ID, func(store *wizard.Store) bool { return store.Prev() })
	case "goto":
		var d gotoData
		if !h.decode(ctx, conn, msg, &d) {
			return
		}
		h.navigate(ctx, conn, sess, msg.ID, func(store *wizard.Store) bool { return store.GoTo(d.Step) })
	case "submit":
		h.handleSubmit(ctx, conn, sess, msg)
	case "ping":
		h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
	default:
		h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (h *WireHandler) handleSubmit(ctx context.Context, conn *websocket.Conn, sess *Session, msg ClientMessage) {
	actor, err := h.ident.Current(ctx)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, "no_identity", err.Error())
		return
	}

	var (
		result    persist.CreateResult
		submitErr error
		refused   bool
	)
	sess.Do(func(store *wizard.Store) {
		state := store.State()
		if state.IsSubmitting || !store.CanSubmit() {
			refused = true
			return
		}
		store.SetSubmitting(true)
		switch sess.Mode {
		case ModePropertyEdit:
			submitErr = h.coord.UpdateProperty(ctx, actor, state.Data)
		case ModeListingEdit:
			if len(state.Data.Listings) == 0 {
				submitErr = errors.New("no listing loaded in this session")
				break
			}
			submitErr = h.coord.UpdateListing(ctx, actor, state.Data.Listings[0])
		default:
			result, submitErr = h.coord.Create(ctx, actor, state.Data)
		}
		if submitErr != nil {
			store.SetSubmitting(false)
			return
		}
		if sess.Mode == ModeCreate {
			store.Reset()
		} else {
			store.SetSubmitting(false)
		}
	})

	if refused {
		h.sendError(ctx, conn, msg.ID, "not_ready", "submit requires a valid review step")
		return
	}
	if submitErr != nil {
		h.sendError(ctx, conn, msg.ID, "submit_failed", submitErr.Error())
		return
	}
	h.send(ctx, conn, ServerMessage{Type: "result", RequestID: msg.ID, Data: result})
	h.sendState(ctx, conn, msg.ID, sess)
}

func (h *WireHandler) navigate(ctx context.Context, conn *websocket.Conn, sess *Session, requestID string, move func(*wizard.Store) bool) {
	var moved bool
	sess.Do(func(store *wizard.Store) { moved = move(store) })
	h.send(ctx, conn, ServerMessage{Type: "navigated", RequestID: requestID, Data: navigateData{Moved: moved}})
	h.sendState(ctx, conn, requestID, sess)
}

func (h *WireHandler) decode(ctx context.Context, conn *websocket.Conn, msg ClientMessage, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid message data: "+err.Error())
		return false
	}
	return true
}

func (h *WireHandler) sendState(ctx context.Context, conn *websocket.Conn, requestID string, sess *Session) {
	h.send(ctx, conn, ServerMessage{Type: "state", RequestID: requestID, Data: sess.State()})
}

func (h *WireHandler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		h.log.Error().Err(err).Msg("wire: write error")
	}
}

func (h *WireHandler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}
