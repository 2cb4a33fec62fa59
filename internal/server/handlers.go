package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/identity"
	"github.com/openrentals/listingdesk/internal/persist"
	"github.com/openrentals/listingdesk/internal/record"
	"github.com/openrentals/listingdesk/internal/wizard"
)

// WizardHandler implements the HTTP surface of the listing wizard: session
// lifecycle, draft change dispatch, step navigation, and submission.
type WizardHandler struct {
	sessions *SessionManager
	coord    *persist.Coordinator
	loader   *persist.Loader
	ident    identity.Provider
	log      zerolog.Logger
}

// NewWizardHandler creates a WizardHandler.
func NewWizardHandler(sessions *SessionManager, coord *persist.Coordinator, loader *persist.Loader, ident identity.Provider, log zerolog.Logger) *WizardHandler {
	return &WizardHandler{
		sessions: sessions,
		coord:    coord,
		loader:   loader,
		ident:    ident,
		log:      log,
	}
}

type createSessionRequest struct {
	Mode       string `json:"mode"`
	PropertyID string `json:"property_id,omitempty"`
	ListingID  string `json:"listing_id,omitempty"`
}

type sessionResponse struct {
	SessionID string           `json:"session_id"`
	Mode      SessionMode      `json:"mode"`
	State     wizard.FormState `json:"state"`
}

// CreateSession opens a wizard session: empty for create mode, or
// pre-populated through the edit-mode loader. A load failure creates no
// session at all.
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	var (
		store *wizard.Store
		mode  SessionMode
		err   error
	)
	switch SessionMode(req.Mode) {
	case ModeCreate, "":
		mode = ModeCreate
		store = wizard.NewStore()
	case ModePropertyEdit:
		if req.PropertyID == "" {
			writeError(w, http.StatusBadRequest, "MISSING_ID", "property_id is required for property edit mode")
			return
		}
		mode = ModePropertyEdit
		store, err = h.loader.LoadProperty(r.Context(), req.PropertyID)
	case ModeListingEdit:
		if req.ListingID == "" {
			writeError(w, http.StatusBadRequest, "MISSING_ID", "listing_id is required for listing edit mode")
			return
		}
		mode = ModeListingEdit
		store, err = h.loader.LoadListing(r.Context(), req.ListingID)
	default:
		writeError(w, http.StatusBadRequest, "INVALID_MODE", "unknown session mode: "+req.Mode)
		return
	}
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("edit-mode load failed")
		writeError(w, http.StatusBadGateway, "LOAD_FAILED", err.Error())
		return
	}

	sess := h.sessions.Create(mode, store)
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		Mode:      sess.Mode,
		State:     sess.State(),
	})
}

// GetSession returns the current form state.
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		Mode:      sess.Mode,
		State:     sess.State(),
	})
}

// DeleteSession discards the session and its drafts.
func (h *WizardHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.sessions.Remove(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ChangeProperty dispatches a property draft edit.
func (h *WizardHandler) ChangeProperty(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var d draft.PropertyDraft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	sess.Do(func(store *wizard.Store) { store.OnPropertyChange(d) })
	writeJSON(w, http.StatusOK, sess.State())
}

// ChangeUnit dispatches a unit draft edit at an index.
func (h *WizardHandler) ChangeUnit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r, "index")
	if !ok {
		return
	}
	var d draft.UnitDraft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	sess.Do(func(store *wizard.Store) { store.OnUnitChange(index, d) })
	writeJSON(w, http.StatusOK, sess.State())
}

// ChangeListing dispatches a listing draft edit at an index.
func (h *WizardHandler) ChangeListing(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r, "index")
	if !ok {
		return
	}
	var d draft.ListingDraft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	sess.Do(func(store *wizard.Store) { store.OnListingChange(index, d) })
	writeJSON(w, http.StatusOK, sess.State())
}

// AddUnit appends a defaulted unit draft.
func (h *WizardHandler) AddUnit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Do(func(store *wizard.Store) { store.AddUnit() })
	writeJSON(w, http.StatusOK, sess.State())
}

// RemoveUnit deletes the unit draft at an index.
func (h *WizardHandler) RemoveUnit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r, "index")
	if !ok {
		return
	}
	sess.Do(func(store *wizard.Store) { store.RemoveUnit(index) })
	writeJSON(w, http.StatusOK, sess.State())
}

// SyncUnit applies the manual amenity sync to one unit.
func (h *WizardHandler) SyncUnit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r, "index")
	if !ok {
		return
	}
	sess.Do(func(store *wizard.Store) { store.SyncUnitAmenities(index) })
	writeJSON(w, http.StatusOK, sess.State())
}

// AddListing appends a defaulted listing draft.
func (h *WizardHandler) AddListing(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Do(func(store *wizard.Store) { store.AddListing() })
	writeJSON(w, http.StatusOK, sess.State())
}

// RemoveListing deletes the listing draft at an index.
func (h *WizardHandler) RemoveListing(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r, "index")
	if !ok {
		return
	}
	sess.Do(func(store *wizard.Store) { store.RemoveListing(index) })
	writeJSON(w, http.StatusOK, sess.State())
}

// SyncListing applies the manual amenity sync to one listing.
func (h *WizardHandler) SyncListing(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r, "index")
	if !ok {
		return
	}
	sess.Do(func(store *wizard.Store) { store.SyncListingAmenities(index) })
	writeJSON(w, http.StatusOK, sess.State())
}

type navigateResponse struct {
	Moved bool             `json:"moved"`
	State wizard.FormState `json:"state"`
}

// Next attempts to advance one step. A refused move returns moved=false
// with the machine staying put.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var moved bool
	sess.Do(func(store *wizard.Store) { moved = store.Next() })
	writeJSON(w, http.StatusOK, navigateResponse{Moved: moved, State: sess.State()})
}

// Prev moves one step back.
func (h *WizardHandler) Prev(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var moved bool
	sess.Do(func(store *wizard.Store) { moved = store.Prev() })
	writeJSON(w, http.StatusOK, navigateResponse{Moved: moved, State: sess.State()})
}

type gotoRequest struct {
	Step wizard.Step `json:"step"`
}

// GoTo attempts a direct jump to a step.
func (h *WizardHandler) GoTo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req gotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	var moved bool
	sess.Do(func(store *wizard.Store) { moved = store.GoTo(req.Step) })
	writeJSON(w, http.StatusOK, navigateResponse{Moved: moved, State: sess.State()})
}

// Submit commits the drafts through the coordinator. On create-mode
// success the session's store resets to an empty form; on failure the
// drafts are kept and the submitting flag cleared so the user can retry.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	actor, err := h.ident.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "NO_IDENTITY", err.Error())
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
			submitErr = h.coord.UpdateProperty(r.Context(), actor, state.Data)
		case ModeListingEdit:
			if len(state.Data.Listings) == 0 {
				submitErr = errors.New("no listing loaded in this session")
				break
			}
			submitErr = h.coord.UpdateListing(r.Context(), actor, state.Data.Listings[0])
		default:
			result, submitErr = h.coord.Create(r.Context(), actor, state.Data)
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
		writeError(w, http.StatusConflict, "NOT_READY", "submit requires a valid review step")
		return
	}
	if submitErr != nil {
		h.log.Error().Err(submitErr).Str("session_id", sess.ID).Msg("submission failed")
		writeError(w, http.StatusBadGateway, "SUBMIT_FAILED", submitErr.Error())
		return
	}
	if sess.Mode == ModeCreate {
		writeJSON(w, http.StatusCreated, result)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *WizardHandler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	sess := h.sessions.Get(id)
	if sess == nil {
		writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "unknown or expired session: "+id)
		return nil, false
	}
	return sess, true
}
