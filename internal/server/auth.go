package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studydesk/internal/projects"
)

const defaultActivityLimit = 50

func (s *Server) register(c *gin.Context) {
	var req projects.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, err := s.projects.Register(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sess, err := s.projects.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, sess)
}

func (s *Server) me(c *gin.Context) {
	respondOK(c, currentUser(c))
}

func (s *Server) updateMe(c *gin.Context) {
	var req projects.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, err := s.projects.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, u)
}

func (s *Server) myActivity(c *gin.Context) {
	acts, err := s.projects.Activity(c.Request.Context(), currentUser(c).ID, defaultActivityLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"activity": acts})
}
