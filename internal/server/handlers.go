package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"deltakey/internal/api"
	"deltakey/internal/engine"
	"deltakey/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Stats())
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Characters())
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Items())
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	numStr := strings.TrimPrefix(r.URL.Path, "/api/items/")
	if numStr == "" || strings.Contains(numStr, "/") {
		s.writeError(w, http.StatusNotFound, "item not found")
		return
	}
	number, err := strconv.Atoi(numStr)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item number")
		return
	}
	item, err := s.service.Item(number)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.service.Sessions()
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		state, err := s.service.NewSession()
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, state)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSession dispatches /api/sessions/{id} and its subresources.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}

	switch action {
	case "":
		s.handleSessionRoot(w, r, id)
	case "propose":
		s.handlePropose(w, r, id)
	case "filters":
		s.handleFilters(w, r, id)
	case "undo":
		s.handleUndo(w, r, id)
	case "reset":
		s.handleReset(w, r, id)
	case "values":
		s.handleValues(w, r, id)
	case "identify":
		s.handleIdentify(w, r, id)
	default:
		s.writeError(w, http.StatusNotFound, "unknown session resource")
	}
}

func (s *Server) handleSessionRoot(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		state, err := s.service.State(id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, state)
	case http.MethodDelete:
		if err := s.service.DeleteSession(id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusNoContent, nil)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var exclude []int
	for _, raw := range strings.Split(r.URL.Query().Get("exclude"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid exclude list")
			return
		}
		exclude = append(exclude, n)
	}

	resp, err := s.service.Propose(id, exclude)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid filter payload")
		return
	}
	result, err := s.service.ApplyFilter(id, req.Character, req.Value)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.service.Undo(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.service.Reset(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	character, err := strconv.Atoi(r.URL.Query().Get("character"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid character number")
		return
	}
	resp, err := s.service.Values(id, character)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.IdentifyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid identify payload")
			return
		}
	}
	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = s.maxAutoSteps
	}
	result, err := s.service.Identify(id, maxSteps)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// writeServiceError maps service errors onto HTTP status codes. Missing
// resources are 404s, rejected input is a 400, everything else a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, engine.ErrItemNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrCharacterNotFound),
		errors.Is(err, engine.ErrInvalidValue):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
