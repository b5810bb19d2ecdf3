package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/store"
)

const defaultEventLimit = 20

type modelUsage struct {
	store.ModelUsage
	CostUSD *float64 `json:"cost_usd"`
}

func (s *Server) listEvents(c *gin.Context) {
	opts := store.QueryOpts{Limit: defaultEventLimit, Purpose: c.Query("purpose")}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid limit %q", v))
			return
		}
		opts.Limit = n
	}
	if v := c.Query("before"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid before %q", v))
			return
		}
		opts.Before = uint(n)
	}
	if v := c.Query("conversation_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid conversation_id %q", v))
			return
		}
		opts.ConversationID = uint(n)
	}
	events, err := s.events.QueryLLMEvents(c.Request.Context(), opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOK(c, gin.H{"events": events})
}

func (s *Server) getEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ev, err := s.events.GetLLMEvent(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if ev == nil {
		respondError(c, http.StatusNotFound, "not_found", fmt.Errorf("llm event %d not found", id))
		return
	}
	respondOK(c, ev)
}

func (s *Server) usage(c *gin.Context) {
	ctx := c.Request.Context()
	byPurpose, err := s.events.LLMUsageByPurpose(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	byModel, err := s.events.LLMUsageByModel(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	models := make([]modelUsage, 0, len(byModel))
	for _, m := range byModel {
		mu := modelUsage{ModelUsage: m}
		if cost := llm.LookupCost(m.Model); cost != nil {
			usd := cost.Cost(m.InputTokens, m.OutputTokens)
			mu.CostUSD = &usd
		}
		models = append(models, mu)
	}
	respondOK(c, gin.H{"by_purpose": byPurpose, "by_model": models})
}
