package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"shift-tracker/internal/api"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type createUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type clockInRequest struct {
	JobID *int64 `json:"job_id"`
}

type forgotClockOutRequest struct {
	ActualEndTime time.Time `json:"actual_end_time"`
	Note          string    `json:"note"`
}

type resolveRequest struct {
	Note string `json:"note"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "shift-tracker",
	})
}

// =============================================================================
// USERS
// =============================================================================

// GET /api/users?role=manager&role=admin
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	var roles []domain.Role
	for _, role := range r.URL.Query()["role"] {
		roles = append(roles, domain.Role(role))
	}

	users, err := s.api.ListUsers(r.Context(), roles...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

// POST /api/users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !s.decode(w, r, &req, false) {
		return
	}

	user, err := s.api.CreateUser(r.Context(), req.Name, domain.Role(req.Role))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, user)
}

// GET /api/users/{userID}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}

	user, err := s.api.GetUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

// GET /api/users/{userID}/hours?range=1w or ?from=...&to=...
func (s *Server) handleNetHours(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}

	window, err := s.reportWindow(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.api.NetHours(r.Context(), userID, *window)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) reportWindow(r *http.Request) (*api.TimeRange, error) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		shorthand := q.Get("range")
		if shorthand == "" {
			shorthand = "1w"
		}
		return s.api.ParseTimeRange(r.Context(), shorthand)
	}

	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return nil, errors.NewInvalidInputError("from", from, "must be an RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return nil, errors.NewInvalidInputError("to", to, "must be an RFC3339 timestamp")
	}
	return &api.TimeRange{Start: start, End: end}, nil
}

// =============================================================================
// SHIFT
// =============================================================================

// GET /api/users/{userID}/shift
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}

	session, err := s.api.GetCurrentSession(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

// POST /api/users/{userID}/shift/clock-in
func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}
	var req clockInRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	result, err := s.api.ClockIn(r.Context(), userID, req.JobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

// POST /api/users/{userID}/shift/break
func (s *Server) handleStartBreak(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.api.StartBreak)
}

// POST /api/users/{userID}/shift/resume
func (s *Server) handleEndBreak(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.api.EndBreak)
}

// POST /api/users/{userID}/shift/clock-out
func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.api.ClockOut)
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID int64) (*domain.TimeEntry, error)) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}

	entry, err := apply(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

// POST /api/users/{userID}/shift/forgot-clock-out
func (s *Server) handleForgotClockOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}
	var req forgotClockOutRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	if req.ActualEndTime.IsZero() {
		s.writeError(w, errors.NewInvalidInputError("actual_end_time", "", "is required"))
		return
	}

	result, err := s.api.ForgotClockOut(r.Context(), userID, req.ActualEndTime, req.Note)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// REVIEW
// =============================================================================

// GET /api/entries/flagged
func (s *Server) handleListFlagged(w http.ResponseWriter, r *http.Request) {
	entries, err := s.api.ListFlaggedEntries(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// GET /api/entries/{entryID}
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := s.pathID(w, r, "entryID")
	if !ok {
		return
	}

	entry, err := s.api.GetEntry(r.Context(), entryID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

// POST /api/entries/{entryID}/resolve
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	entryID, ok := s.pathID(w, r, "entryID")
	if !ok {
		return
	}
	var req resolveRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	entry, err := s.api.ResolveFlaggedEntry(r.Context(), entryID, req.Note)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

// POST /api/sweep
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.SweepOverCap(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// INBOX
// =============================================================================

// GET /api/users/{userID}/notifications?unread=true
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	list, err := s.api.ListNotifications(r.Context(), userID, unreadOnly)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

// POST /api/notifications/{notificationID}/read
func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.api.MarkNotificationRead(r.Context(), chi.URLParam(r, "notificationID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

// pathID parses a positive integer URL parameter, writing a 400 when it is not one
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, errors.NewInvalidInputError(param, raw, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into dst; optional bodies may be empty
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && stderrors.Is(err, io.EOF)) {
		return true
	}
	s.writeError(w, errors.NewInvalidInputError("body", "", "malformed JSON: "+err.Error()))
	return false
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError maps err onto a status code and writes its user-facing message
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if errors.ShouldLogError(err) {
		s.log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	s.writeJSON(w, status, ErrorResponse{
		Error: errors.GetUserMessage(err),
		Code:  errors.GetErrorCode(err),
	})
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeIllegalTransition, errors.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
