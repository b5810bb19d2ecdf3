package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// eventRepo implements EventRepo backed by gorm.
type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	ev := &LLMRequestEvent{
		Provider:       data.Provider,
		Model:          data.Model,
		Purpose:        data.Purpose,
		ConversationID: data.ConversationID,
		InputTokens:    data.InputTokens,
		OutputTokens:   data.OutputTokens,
		LatencyMs:      data.LatencyMs,
		Success:        data.Success,
		ErrorMessage:   data.ErrorMessage,
		RequestBody:    data.RequestBody,
		ResponseBody:   data.ResponseBody,
	}
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	q := r.db.WithContext(ctx).Model(&LLMRequestEvent{})
	if opts.After > 0 {
		q = q.Where("id > ?", opts.After)
	}
	if opts.Before > 0 {
		q = q.Where("id < ?", opts.Before)
	}
	if !opts.From.IsZero() {
		q = q.Where("timestamp >= ?", opts.From)
	}
	if !opts.To.IsZero() {
		q = q.Where("timestamp <= ?", opts.To)
	}
	if opts.Purpose != "" {
		q = q.Where("purpose = ?", opts.Purpose)
	}
	if opts.ConversationID > 0 {
		q = q.Where("conversation_id = ?", opts.ConversationID)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var events []LLMRequestEvent
	if err := q.Order("id DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id uint) (*LLMRequestEvent, error) {
	var ev LLMRequestEvent
	err := r.db.WithContext(ctx).First(&ev, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &ev, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	var rows []PurposeUsage
	err := r.db.WithContext(ctx).Model(&LLMRequestEvent{}).
		Select("purpose, COUNT(*) AS calls, " +
			"COALESCE(SUM(input_tokens), 0) AS input_tokens, " +
			"COALESCE(SUM(output_tokens), 0) AS output_tokens, " +
			"CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms").
		Group("purpose").
		Order("calls DESC, purpose").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	return rows, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	var rows []ModelUsage
	err := r.db.WithContext(ctx).Model(&LLMRequestEvent{}).
		Select("model, COUNT(*) AS calls, " +
			"COALESCE(SUM(input_tokens), 0) AS input_tokens, " +
			"COALESCE(SUM(output_tokens), 0) AS output_tokens").
		Group("model").
		Order("calls DESC, model").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	return rows, nil
}
