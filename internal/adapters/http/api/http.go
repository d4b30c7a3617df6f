// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/types"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/flow"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	CreateSession(ctx context.Context, userName string) (flow.Snapshot, error)
	Session(ctx context.Context, sessionID string) (flow.Snapshot, error)

	// Answering and navigation.
	Select(ctx context.Context, sessionID, questionID, optionID string) (flow.SelectResult, error)
	Next(ctx context.Context, sessionID string) (flow.Snapshot, error)
	Previous(ctx context.Context, sessionID string) (flow.Snapshot, error)
	ConfirmMain(ctx context.Context, sessionID string) (flow.Snapshot, error)

	// Completion and read operations.
	SeeResult(ctx context.Context, sessionID string) (model.ScoringResult, error)
	Result(ctx context.Context, sessionID string) (model.ScoringResult, bool, error)
	TopStyles(ctx context.Context, n int) ([]types.StyleCount, error)
}

// StyleCount mirrors the read shape returned by aggregate style queries.
type StyleCount = types.StyleCount

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionHandler   *SessionHandler
	selectionHandler *SelectionHandler
	stylesHandler    *StylesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxTopStyles int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionHandler:   NewSessionHandler(deps),
		selectionHandler: NewSelectionHandler(deps),
		stylesHandler:    NewStylesHandler(deps, maxTopStyles),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/styles/top", MetricsMiddleware(s.stylesHandler.HandleTopStyles, "styles_top"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionHandler.HandlePostSession, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.routeSession, "session"))
}

// routeSession dispatches /sessions/{id} and /sessions/{id}/{action}.
func (s *Server) routeSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch action {
	case "":
		s.sessionHandler.HandleGetSession(w, r, id)
	case "selections":
		s.selectionHandler.HandlePostSelection(w, r, id)
	case "next":
		s.sessionHandler.HandleNext(w, r, id)
	case "previous":
		s.sessionHandler.HandlePrevious(w, r, id)
	case "confirm":
		s.sessionHandler.HandleConfirm(w, r, id)
	case "result":
		s.sessionHandler.HandleResult(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// createSessionRequest mirrors the schema for POST /sessions.
type createSessionRequest struct {
	UserName string `json:"user_name"`
}

// selectionRequest mirrors the schema for POST /sessions/{id}/selections.
type selectionRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

func (s selectionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.QuestionID) == "":
		return NewKind("api.post_selection", ErrBadRequest)
	case strings.TrimSpace(s.OptionID) == "":
		return NewKind("api.post_selection", ErrBadRequest)
	}
	return nil
}

// resultResponse is the terminal payload; Undefined marks a session that
// completed without a scorable answer.
type resultResponse struct {
	Undefined bool                 `json:"undefined"`
	Result    *model.ScoringResult `json:"result,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
