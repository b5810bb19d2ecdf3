package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studydesk/internal/projects"
	"github.com/abhisek/studydesk/internal/quizgen"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// fail maps a service error to its HTTP status.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		terr *quizgen.TransportError
		perr *quizgen.ParseError
	)
	switch {
	case errors.Is(err, study.ErrInvalidInput), errors.Is(err, projects.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, projects.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, projects.ErrForbidden):
		respondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &terr):
		respondError(c, http.StatusBadGateway, "completion_failed", err)
	case errors.As(err, &perr):
		respondError(c, http.StatusBadGateway, "completion_unparseable", err)
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}
