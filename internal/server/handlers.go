package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/internship-checker/internal/db"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Server is running. See /api/companies for availability data.\n"))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Report(r.Context())
	if err != nil {
		s.logger.Error("failed to build availability report", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleListRequirements(w http.ResponseWriter, r *http.Request) {
	if s.requirements == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "requirement store not configured")
		return
	}
	records, err := s.requirements.ListRequirements(r.Context())
	if err != nil {
		s.logger.Error("failed to list requirements", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":      true,
		"count":        len(records),
		"requirements": records,
	})
}

func (s *Server) handleGetRequirement(w http.ResponseWriter, r *http.Request) {
	if s.requirements == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "requirement store not configured")
		return
	}
	id := r.PathValue("id")
	rec, err := s.requirements.GetRequirement(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, "requirement not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get requirement", zap.String("posting_id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "requirement": rec})
}
