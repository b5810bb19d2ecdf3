package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studydesk/internal/projects"
)

func (s *Server) listProjects(c *gin.Context) {
	ps, err := s.projects.Projects(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"projects": ps})
}

func (s *Server) createProject(c *gin.Context) {
	var req projects.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := s.projects.CreateProject(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) getProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := s.projects.Project(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, p)
}

func (s *Server) updateProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req projects.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := s.projects.UpdateProject(c.Request.Context(), currentUser(c).ID, id, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, p)
}

func (s *Server) deleteProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.projects.DeleteProject(c.Request.Context(), currentUser(c).ID, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listProjectTasks(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tasks, err := s.projects.ProjectTasks(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"tasks": tasks})
}

func (s *Server) timeline(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tl, err := s.projects.Timeline(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, tl)
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.projects.Tasks(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"tasks": tasks})
}

func (s *Server) createTask(c *gin.Context) {
	var req projects.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	t, err := s.projects.CreateTask(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := s.projects.Task(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, t)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req projects.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	changes, err := s.projects.UpdateTask(c.Request.Context(), currentUser(c).ID, id, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(changes) == 0 {
		respondOK(c, gin.H{"changes": changes, "message": "no changes"})
		return
	}
	respondOK(c, gin.H{"changes": changes})
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.projects.DeleteTask(c.Request.Context(), currentUser(c).ID, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) taskHistory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	history, err := s.projects.TaskHistory(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"history": history})
}
