package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codescope/internal/aggregate"
	"codescope/internal/service"
	"codescope/internal/store"
)

const defaultListLimit = 20

type startRequest struct {
	ProjectName string `json:"project_name"`
	ProjectPath string `json:"project_path"`
}

type runResponse struct {
	ID          string            `json:"id"`
	ProjectName string            `json:"project_name"`
	ProjectPath string            `json:"project_path"`
	Status      string            `json:"status"`
	ChunkCount  int               `json:"chunk_count,omitempty"`
	TaskCount   int               `json:"task_count,omitempty"`
	Report      *aggregate.Report `json:"report,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

func toRunResponse(run *store.Run) runResponse {
	return runResponse{
		ID:          run.ID.String(),
		ProjectName: run.ProjectName,
		ProjectPath: run.ProjectPath,
		Status:      run.Status,
		ChunkCount:  run.ChunkCount,
		TaskCount:   run.TaskCount,
		Report:      run.Report,
		Error:       run.ErrorText,
		CreatedAt:   run.CreatedAt,
		CompletedAt: run.CompletedAt,
	}
}

// startAnalysis handles POST /api/v1/analyses.
func (s *Server) startAnalysis(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.ProjectPath) == "" {
		writeError(w, http.StatusBadRequest, "project_path is required")
		return
	}
	if strings.TrimSpace(req.ProjectName) == "" {
		req.ProjectName = projectNameFromPath(req.ProjectPath)
	}

	id, err := s.svc.Start(r.Context(), req.ProjectName, req.ProjectPath)
	if err != nil {
		s.logger.Error("failed to start analysis", "path", req.ProjectPath, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start analysis")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     id.String(),
		"status": store.StatusRunning,
	})
}

// getAnalysis handles GET /api/v1/analyses/{id}.
func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, err := s.svc.Get(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load run", "run_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	writeJSON(w, http.StatusOK, toRunResponse(run))
}

// listAnalyses handles GET /api/v1/analyses.
func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := s.svc.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	out := make([]runResponse, 0, len(runs))
	for i := range runs {
		resp := toRunResponse(&runs[i])
		resp.Report = nil // listings stay light
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  out,
		"count": len(out),
	})
}

func projectNameFromPath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if trimmed == "" {
		return "unnamed"
	}
	return trimmed
}
