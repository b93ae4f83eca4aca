package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
)

// HandlerError is the JSON body of every error response.
type HandlerError struct {
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	RequestID        string `json:"requestId,omitempty"`
	CallerInfo       string `json:"callerInfo,omitempty"`
}

var (
	ErrGET            = errors.New("GET method required for this endpoint")
	ErrOriginNotAllow = errors.New("origin not allowed")
)

// callerInfo names the handler that reported the error.
func callerInfo() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "[unknown]"
	}
	return fmt.Sprintf("[%s:%d]", filepath.Base(file), line)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, he HandlerError) {
	he.RequestID = requestID(r.Context())
	if s.Config.DevMode {
		he.CallerInfo = callerInfo()
	}
	s.Logger.Debug("request failed", "status", status, "error", he.Description, "request_id", he.RequestID)
	writeJSON(w, status, he)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, http.StatusBadRequest, HandlerError{
		ErrorName:        "Bad Request",
		Description:      err.Error(),
		PossibleSolution: "Check your request parameters",
	})
}

func (s *Server) requireGetMethod(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	s.writeError(w, r, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "GET Method Required",
		Description:      ErrGET.Error() + " you used: " + r.Method,
		PossibleSolution: "Use GET method",
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusNotFound, HandlerError{
		ErrorName:        "Not Found",
		Description:      "no endpoint at " + r.URL.Path,
		PossibleSolution: "See /healthz and the /v1 endpoints",
	})
}

func (s *Server) originNotAllowed(w http.ResponseWriter, r *http.Request, origin string) {
	s.writeError(w, r, http.StatusForbidden, HandlerError{
		ErrorName:        "Origin Not Allowed",
		Description:      fmt.Sprintf("%s: %s", ErrOriginNotAllow, origin),
		PossibleSolution: "Add the origin to WCAGTINT_ALLOWED_ORIGINS",
	})
}

func (s *Server) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("internal error", "path", r.URL.Path, "error", err)
	s.writeError(w, r, http.StatusInternalServerError, HandlerError{
		ErrorName:        "Internal Server Error",
		Description:      err.Error(),
		PossibleSolution: "Internal Server Error requiring support",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
