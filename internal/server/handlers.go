package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/engram-oss/engram/internal/errors"
)

// --- Helpers ---

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDomainError maps memory errors onto HTTP status codes. A persistence
// failure still means the mutation applied, so callers handle it separately.
func writeDomainError(w http.ResponseWriter, err error) {
	switch errors.AsCode(err) {
	case errors.CodeValidation:
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.CodeSerialization:
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		jsonError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- Health / status ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"user":   s.mem.User(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	counts, err := s.mem.Counts()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := map[string]interface{}{
		"user":   s.mem.User(),
		"counts": counts,
	}
	if s.metrics != nil {
		out["metrics"] = s.metrics.Snapshot()
	}
	jsonResponse(w, http.StatusOK, out)
}

// --- Facts ---

type factRequest struct {
	Concept string         `json:"concept"`
	Details map[string]any `json:"details"`
}

func (s *Server) handleAddFact(w http.ResponseWriter, r *http.Request) {
	var req factRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.mem.AddFact(req.Concept, req.Details); err != nil {
		if errors.AsCode(err) == errors.CodePersistence {
			jsonResponse(w, http.StatusCreated, map[string]string{
				"concept": req.Concept,
				"warning": "stored in memory only: " + err.Error(),
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]string{"concept": req.Concept})
}

func (s *Server) handleGetFact(w http.ResponseWriter, r *http.Request) {
	concept := r.PathValue("concept")
	details, ok, err := s.mem.Fact(concept)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("fact not found: %s", concept))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"concept": concept, "details": details})
}

// --- Procedures ---

type procedureRequest struct {
	Name    string   `json:"name"`
	Steps   []string `json:"steps"`
	Context string   `json:"context"`
}

func (s *Server) handleAddProcedure(w http.ResponseWriter, r *http.Request) {
	var req procedureRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.mem.AddProcedure(req.Name, req.Steps, req.Context); err != nil {
		if errors.AsCode(err) == errors.CodePersistence {
			jsonResponse(w, http.StatusCreated, map[string]string{
				"name":    req.Name,
				"warning": "stored in memory only: " + err.Error(),
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleUpdateProcedure(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req procedureRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ok, err := s.mem.UpdateProcedure(name, req.Steps, req.Context)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("procedure not found: %s", name))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleGetProcedure(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	proc, ok, err := s.mem.Procedure(name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("procedure not found: %s", name))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"name":    name,
		"steps":   proc.Steps,
		"context": proc.Context,
	})
}

// --- Interactions ---

type interactionRequest struct {
	Query    string         `json:"query"`
	Response string         `json:"response"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleAddInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	rec, err := s.mem.AddInteraction(req.Query, req.Response, req.Metadata)
	if err != nil {
		if errors.AsCode(err) == errors.CodePersistence {
			jsonResponse(w, http.StatusCreated, map[string]any{
				"interaction": rec,
				"warning":     "stored in memory only: " + err.Error(),
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]any{"interaction": rec})
}

func (s *Server) handleGetInteraction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok, err := s.mem.Interaction(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("interaction not found: %s", id))
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			jsonError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	records, err := s.mem.Recent(n)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"interactions": records})
}

// --- Recall and context ---

func (s *Server) handleRecall(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, http.StatusBadRequest, "missing query parameter: q")
		return
	}
	result, err := s.mem.Recall(query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, http.StatusBadRequest, "missing query parameter: q")
		return
	}
	out, err := s.mem.GenerateContext(query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"query": query, "context": out})
}
