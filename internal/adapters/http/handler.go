package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/grid"
	"github.com/PabloGalante/mandalart-agent/internal/observability"
)

const defaultListLimit = 50

type Server struct {
	boards *board.Registry
}

func NewServer(boards *board.Registry) http.Handler {
	s := &Server{boards: boards}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/schema", s.handleSchema)
	mux.HandleFunc("/focus-areas", s.handleFocusAreas)

	// /boards → list (GET), create (POST)
	mux.HandleFunc("/boards", s.handleBoards)

	// /boards/{id}                                  → GET, DELETE
	// /boards/{id}/generate                         → POST
	// /boards/{id}/reset                            → POST
	// /boards/{id}/grid                             → GET
	// /boards/{id}/subgoals/{subGoalID}/regenerate  → POST
	mux.HandleFunc("/boards/", s.handleBoardWithID)

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type generateRequest struct {
	MainGoal  string `json:"mainGoal"`
	FocusArea string `json:"focusArea,omitempty"`
}

type regenerateRequest struct {
	Feedback string `json:"feedback,omitempty"`
}

type boardResponse struct {
	ID           string               `json:"id"`
	Document     *domain.PlanDocument `json:"document"`
	FocusArea    string               `json:"focusArea"`
	Loading      bool                 `json:"loading"`
	Regenerating bool                 `json:"regenerating"`
	Error        string               `json:"error,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

type listBoardsResponse struct {
	Boards []boardResponse `json:"boards"`
}

type gridResponse struct {
	BoardID string        `json:"boardId"`
	Grid    grid.CellGrid `json:"grid"`
}

type focusAreasResponse struct {
	FocusAreas []string `json:"focusAreas"`
	Default    string   `json:"default"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, domain.PlanSchema())
}

func (s *Server) handleFocusAreas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	resp := focusAreasResponse{Default: string(domain.FocusBalanced)}
	for _, fa := range domain.FocusAreas {
		resp.FocusAreas = append(resp.FocusAreas, string(fa))
	}
	writeJSON(w, http.StatusOK, resp)
}

// /boards
func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBoards(w, r)
	case http.MethodPost:
		s.handleCreateBoard(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /boards/{id}[/...]
func (s *Server) handleBoardWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/boards/"), "/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.BoardID(parts[0])

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			s.handleGetBoard(w, r, id)
		case http.MethodDelete:
			s.handleDeleteBoard(w, r, id)
		default:
			methodNotAllowed(w)
		}

	case len(parts) == 2 && parts[1] == "generate":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleGenerate(w, r, id)

	case len(parts) == 2 && parts[1] == "reset":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleReset(w, r, id)

	case len(parts) == 2 && parts[1] == "grid":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleGrid(w, r, id)

	case len(parts) == 4 && parts[1] == "subgoals" && parts[3] == "regenerate" && parts[2] != "":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleRegenerate(w, r, id, parts[2])

	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	states, err := s.boards.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}

	resp := listBoardsResponse{Boards: make([]boardResponse, 0, len(states))}
	for _, st := range states {
		resp.Boards = append(resp.Boards, toBoardResponse(st))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	c, err := s.boards.Create(r.Context())
	if err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBoardResponse(c.Snapshot()))
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request, id domain.BoardID) {
	c, err := s.boards.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(c.Snapshot()))
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request, id domain.BoardID) {
	if err := s.boards.Delete(r.Context(), id); err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, id domain.BoardID) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.MainGoal) == "" {
		badRequest(w, "mainGoal is required")
		return
	}
	focus, err := domain.ParseFocusArea(req.FocusArea)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	c, err := s.boards.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	if _, err := c.Generate(r.Context(), req.MainGoal, focus); err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(c.Snapshot()))
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request, id domain.BoardID, subGoalID string) {
	var req regenerateRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	c, err := s.boards.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, board.OpRegenerate, err)
		return
	}
	if _, err := c.RegenerateBlock(r.Context(), subGoalID, req.Feedback); err != nil {
		writeError(w, r, board.OpRegenerate, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(c.Snapshot()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, id domain.BoardID) {
	c, err := s.boards.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	c.Reset(r.Context())
	writeJSON(w, http.StatusOK, toBoardResponse(c.Snapshot()))
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request, id domain.BoardID) {
	c, err := s.boards.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	g, err := c.Grid()
	if err != nil {
		writeError(w, r, board.OpGenerate, err)
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{BoardID: string(id), Grid: g})
}

// ─────────────────────────────────────────────
// Board Helpers
// ─────────────────────────────────────────────

func toBoardResponse(st board.State) boardResponse {
	return boardResponse{
		ID:           string(st.BoardID),
		Document:     st.Document,
		FocusArea:    string(st.FocusArea),
		Loading:      st.Loading,
		Regenerating: st.Regenerating,
		Error:        st.Error,
		CreatedAt:    st.CreatedAt,
		UpdatedAt:    st.LastUpdated,
	}
}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBoardNotFound), errors.Is(err, domain.ErrSubGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrNoDocument), errors.Is(err, board.ErrDiscarded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRequestFailed),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrRegenerationIntegrity):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, op board.Op, err error) {
	status := statusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		internalError(w, r, err)
		return
	case errors.Is(err, domain.ErrBoardNotFound):
		writeJSON(w, status, errorResponse{Error: "board not found"})
		return
	case errors.Is(err, board.ErrDiscarded):
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	resp := errorResponse{Error: board.UserMessage(op, err)}
	if status == http.StatusBadRequest || status == http.StatusBadGateway {
		resp.Detail = err.Error()
	}
	if status == http.StatusBadGateway {
		observability.LoggerFromContext(r.Context()).Warn("generation failed", "op", string(op), "error", err)
	}
	writeJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}
