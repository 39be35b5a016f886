package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lox/liveholdem/internal/game"
	"github.com/lox/liveholdem/internal/session"
)

type createGameRequest struct {
	Players   []string `json:"players"`
	SeatCount int      `json:"seat_count,omitempty"`
}

type createGameResponse struct {
	GameID string     `json:"game_id"`
	State  game.State `json:"state"`
}

type seatRequest struct {
	Seat int    `json:"seat"`
	Name string `json:"name,omitempty"`
}

type addAIPlayerRequest struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type actionRequest struct {
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type stateResponse struct {
	State  game.State `json:"state"`
	Events []string   `json:"events,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.SeatCount != 0 && (req.SeatCount < 2 || req.SeatCount > 10) {
		s.writeError(w, http.StatusBadRequest, errors.New("seat_count must be between 2 and 10"))
		return
	}

	id, state := s.coordinator.CreateSession(req.Players, req.SeatCount)
	s.writeJSON(w, http.StatusCreated, createGameResponse{GameID: id, State: state})
}

func (s *Server) handleJoinSeat(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("name required"))
		return
	}

	state, err := s.coordinator.JoinSeat(r.PathValue("id"), req.Seat, req.Name)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: state})
}

func (s *Server) handleLeaveSeat(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}

	state, err := s.coordinator.LeaveSeat(r.PathValue("id"), req.Seat)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: state})
}

func (s *Server) handleAddAIPlayer(w http.ResponseWriter, r *http.Request) {
	var req addAIPlayerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		req.Name = "Bot"
	}

	state, err := s.coordinator.AddAutomatedPlayer(r.PathValue("id"), req.Seat, req.Name, req.Strategy, req.Difficulty)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: state})
}

func (s *Server) handleStartHand(w http.ResponseWriter, r *http.Request) {
	events, state, err := s.coordinator.StartHand(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: state, Events: events})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}

	action, err := game.ParseAction(req.Action)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	events, state, err := s.coordinator.SubmitAction(r.Context(), r.PathValue("id"), req.Seat, action, req.Amount)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: state, Events: events})
}

// handleState serves the spectator snapshot. Hole cards are only ever
// revealed over an upgraded WebSocket, never over unauthenticated REST.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.coordinator.State(r.PathValue("id"), game.SpectatorView())
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: state})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.coordinator.DeleteSession(r.PathValue("id")); err != nil {
		s.writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode parses a JSON request body, tolerating an empty body
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

// writeGameError maps domain errors to HTTP statuses
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrSeatTaken),
		errors.Is(err, game.ErrHandInProgress),
		errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusConflict
	case errors.Is(err, game.ErrDeckExhausted):
		status = http.StatusInternalServerError
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
