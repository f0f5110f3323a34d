package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	sentryerrors "github.com/dhirendraxd/CyberSentry-sub000/pkg/errors"
)

// analyzeRequest is the JSON invocation contract.
type analyzeRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
	SinkID      string `json:"sinkId,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Oversize uploads are rejected here, before any parser invocation.
	// The cap leaves headroom for the JSON envelope around fileContent.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+64*1024)
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large or malformed")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}

	result, err := s.session(r).Analyze(r.Context(), req.FileName, req.FileContent, req.SinkID)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRequestNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.session(r).RequestNewAnalysis(); err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"history": session.History(),
		})
	case http.MethodDelete:
		timestamp := r.URL.Query().Get("timestamp")
		if timestamp == "" {
			writeError(w, http.StatusBadRequest, "timestamp is required")
			return
		}
		if err := session.DeleteFromHistory(timestamp); err != nil {
			writeAnalysisError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleHistoryView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	timestamp := r.URL.Query().Get("timestamp")
	if timestamp == "" {
		writeError(w, http.StatusBadRequest, "timestamp is required")
		return
	}
	result, err := s.session(r).View(timestamp)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.session(r).MarkResolved(); err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.session(r).Reanalyze(r.Context())
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, ok := s.session(r).Current()
	if !ok {
		writeError(w, http.StatusNotFound, sentryerrors.ErrNoCurrentAnalysis.Error())
		return
	}

	fileName := fmt.Sprintf("log-analysis-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(result)
}

type integrationRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"apiKey"`
}

func (s *Server) handleIntegrations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		all, err := s.registry.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"integrations": all})

	case http.MethodPost:
		var req integrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Name == "" || req.Endpoint == "" {
			writeError(w, http.StatusBadRequest, "name and endpoint are required")
			return
		}
		integration, err := s.registry.Add(req.Name, req.Endpoint, req.APIKey)
		if err != nil {
			if errors.Is(err, sentryerrors.ErrIntegrationLimit) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, integration)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err := s.registry.Delete(id); err != nil {
			if errors.Is(err, sentryerrors.ErrIntegrationNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleIntegrationTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req integrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	integration, err := s.registry.Test(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, sentryerrors.ErrIntegrationNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, integration)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAnalysisError maps pipeline errors onto HTTP statuses. Workflow
// violations are conflicts, input problems are bad requests, missing
// entries are 404s; anything else is a 500.
func writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sentryerrors.ErrAnalysisInFlight),
		errors.Is(err, sentryerrors.ErrUnresolvedAnalysis):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sentryerrors.ErrUnsupportedExtension),
		errors.Is(err, sentryerrors.ErrEmptyContent),
		errors.Is(err, sentryerrors.ErrNoRecords):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sentryerrors.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, sentryerrors.ErrHistoryEntryNotFound),
		errors.Is(err, sentryerrors.ErrNoCurrentAnalysis):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
