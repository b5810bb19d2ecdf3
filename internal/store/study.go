package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// studyRepo implements StudyRepo backed by gorm. Questions are ordered by
// id, which follows insertion order.
type studyRepo struct {
	db *gorm.DB
}

func (r *studyRepo) CreateConversation(ctx context.Context, conv *StudyConversation) error {
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (r *studyRepo) OpenConversation(ctx context.Context, name string) (*StudyConversation, bool, error) {
	conv := &StudyConversation{Name: name}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(conv)
	if res.Error != nil {
		return nil, false, fmt.Errorf("open conversation: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return conv, true, nil
	}
	existing, err := r.ConversationByName(ctx, name)
	return existing, false, err
}

func (r *studyRepo) ConversationByName(ctx context.Context, name string) (*StudyConversation, error) {
	var conv StudyConversation
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&conv).Error; err != nil {
		return nil, fmt.Errorf("conversation %q: %w", name, notFound(err))
	}
	return &conv, nil
}

func (r *studyRepo) Conversation(ctx context.Context, id uint) (*StudyConversation, error) {
	var conv StudyConversation
	if err := r.db.WithContext(ctx).Take(&conv, id).Error; err != nil {
		return nil, fmt.Errorf("conversation %d: %w", id, notFound(err))
	}
	return &conv, nil
}

func (r *studyRepo) LatestConversation(ctx context.Context) (*StudyConversation, error) {
	var conv StudyConversation
	if err := r.db.WithContext(ctx).Order("id DESC").Take(&conv).Error; err != nil {
		return nil, fmt.Errorf("latest conversation: %w", notFound(err))
	}
	return &conv, nil
}

func (r *studyRepo) ListConversations(ctx context.Context) ([]StudyConversation, error) {
	var convs []StudyConversation
	if err := r.db.WithContext(ctx).Order("id").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

func (r *studyRepo) SetSeedPrompt(ctx context.Context, conversationID uint, prompt string) error {
	err := r.db.WithContext(ctx).Model(&StudyConversation{}).
		Where("id = ? AND seed_prompt = ?", conversationID, "").
		Update("seed_prompt", prompt).Error
	if err != nil {
		return fmt.Errorf("set seed prompt: %w", err)
	}
	return nil
}

func (r *studyRepo) QuestionTexts(ctx context.Context, conversationID uint) ([]string, error) {
	var texts []string
	err := r.db.WithContext(ctx).Model(&StudyQuestion{}).
		Where("conversation_id = ?", conversationID).
		Order("id").
		Pluck("question", &texts).Error
	if err != nil {
		return nil, fmt.Errorf("question texts: %w", err)
	}
	return texts, nil
}

func (r *studyRepo) SaveCycle(ctx context.Context, conversationID uint, questions []*StudyQuestion, keywords string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, q := range questions {
			q.ConversationID = conversationID
			if err := tx.Create(q).Error; err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
		}
		res := tx.Model(&StudyConversation{}).
			Where("id = ?", conversationID).
			Update("keywords", keywords)
		if res.Error != nil {
			return fmt.Errorf("update keywords: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("conversation %d: %w", conversationID, ErrNotFound)
		}
		return nil
	})
}

func (r *studyRepo) Question(ctx context.Context, id uint) (*StudyQuestion, error) {
	var q StudyQuestion
	if err := r.db.WithContext(ctx).Take(&q, id).Error; err != nil {
		return nil, fmt.Errorf("question %d: %w", id, notFound(err))
	}
	return &q, nil
}

func (r *studyRepo) ListQuestions(ctx context.Context, conversationID uint) ([]StudyQuestion, error) {
	var qs []StudyQuestion
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id").
		Find(&qs).Error
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

func (r *studyRepo) LatestQuestion(ctx context.Context, conversationID uint) (*StudyQuestion, error) {
	var q StudyQuestion
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Take(&q).Error
	if err != nil {
		return nil, fmt.Errorf("latest question: %w", notFound(err))
	}
	return &q, nil
}

func (r *studyRepo) Neighbors(ctx context.Context, q *StudyQuestion) (uint, uint, error) {
	prev, err := r.neighbor(ctx, q, "id < ?", "id DESC")
	if err != nil {
		return 0, 0, err
	}
	next, err := r.neighbor(ctx, q, "id > ?", "id")
	if err != nil {
		return 0, 0, err
	}
	return prev, next, nil
}

func (r *studyRepo) neighbor(ctx context.Context, q *StudyQuestion, cond, order string) (uint, error) {
	var n StudyQuestion
	err := r.db.WithContext(ctx).
		Select("id").
		Where("conversation_id = ?", q.ConversationID).
		Where(cond, q.ID).
		Order(order).
		Take(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("neighbor of question %d: %w", q.ID, err)
	}
	return n.ID, nil
}
