package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listConversations(c *gin.Context) {
	convs, err := s.study.Conversations(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"conversations": convs})
}

func (s *Server) createConversation(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := s.study.CreateConversation(c.Request.Context(), req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) getConversation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	conv, err := s.study.Conversation(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, conv)
}

func (s *Server) listQuestions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	qs, err := s.study.Questions(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"questions": qs})
}

// addQuestions answers 200 with an empty list when the completion held no
// usable question; the client may simply retry.
func (s *Server) addQuestions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := s.study.AddQuestions(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(res.Questions) == 0 {
		respondOK(c, gin.H{"conversation": res.Conversation, "questions": res.Questions, "skipped": res.Skipped, "message": "no questions generated"})
		return
	}
	respondOK(c, res)
}

func (s *Server) getQuestion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := s.study.Navigate(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, view)
}

func (s *Server) submitAnswer(c *gin.Context) {
	var req struct {
		QuestionID  uint     `json:"question_id" binding:"required"`
		UserChoices []string `json:"user_choices"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := s.study.SubmitAnswer(c.Request.Context(), req.QuestionID, req.UserChoices)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, res)
}

func (s *Server) exportBank(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.study.Export(c.Request.Context(), &buf, c.QueryArray("conversation")...); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/yaml", buf.Bytes())
}

func (s *Server) importBank(c *gin.Context) {
	stats, err := s.study.Import(c.Request.Context(), c.Request.Body)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, stats)
}
