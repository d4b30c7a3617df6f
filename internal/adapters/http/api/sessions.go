// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/scoring"
)

// SessionHandler handles session lifecycle and navigation requests.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandlePostSession handles POST /sessions requests.
func (h *SessionHandler) HandlePostSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	snap, err := h.deps.CreateSession(r.Context(), req.UserName)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// HandleGetSession handles GET /sessions/{id} requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Session(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleNext handles POST /sessions/{id}/next requests.
func (h *SessionHandler) HandleNext(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Next(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandlePrevious handles POST /sessions/{id}/previous requests.
func (h *SessionHandler) HandlePrevious(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Previous(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleConfirm handles POST /sessions/{id}/confirm requests.
func (h *SessionHandler) HandleConfirm(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.ConfirmMain(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleResult handles POST and GET /sessions/{id}/result requests. POST
// finishes the session; GET re-reads a finished session's classification.
// Either way an unscorable session yields a 200 with undefined set, the
// caller renders the fallback.
func (h *SessionHandler) HandleResult(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPost:
		result, err := h.deps.SeeResult(r.Context(), id)
		if err != nil {
			if errors.Is(err, scoring.ErrEmptyScore) {
				writeJSON(w, http.StatusOK, resultResponse{Undefined: true})
				return
			}
			status, code := statusFor(err)
			writeError(w, status, code, err)
			return
		}
		writeJSON(w, http.StatusOK, resultResponse{Result: &result})
	case http.MethodGet:
		result, undefined, err := h.deps.Result(r.Context(), id)
		if err != nil {
			status, code := statusFor(err)
			writeError(w, status, code, err)
			return
		}
		if undefined {
			writeJSON(w, http.StatusOK, resultResponse{Undefined: true})
			return
		}
		writeJSON(w, http.StatusOK, resultResponse{Result: &result})
	default:
		http.NotFound(w, r)
	}
}
