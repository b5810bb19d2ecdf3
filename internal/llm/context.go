package llm

import "context"

type ctxKey int

const (
	purposeKey ctxKey = iota
	conversationKey
)

// WithPurpose labels the calls made under ctx, e.g. "quiz-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithConversation ties the calls made under ctx to a study conversation
// so recorded events can be filtered by it.
func WithConversation(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, conversationKey, id)
}

func ConversationFrom(ctx context.Context) uint {
	id, _ := ctx.Value(conversationKey).(uint)
	return id
}
