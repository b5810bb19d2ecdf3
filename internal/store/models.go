package store

import (
	"time"

	"gorm.io/datatypes"
)

// StudyConversation is a named study topic. Questions generated for the
// topic hang off it.
type StudyConversation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Keywords   string    `json:"keywords"`
	SeedPrompt string    `json:"seed_prompt"`
	CreatedAt  time.Time `json:"created_at"`
}

// Choice is one lettered answer option of a stored question.
type Choice struct {
	Letter  string `json:"letter"`
	Text    string `json:"text"`
	Reason  string `json:"reason"`
	Correct bool   `json:"correct"`
}

// Reason pairs an option letter with the model's explanation for it.
type Reason struct {
	Letter string `json:"letter"`
	Reason string `json:"reason"`
}

// StudyQuestion is a validated question stored for a conversation.
type StudyQuestion struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	ConversationID   uint                        `gorm:"index;not null" json:"conversation_id"`
	Question         string                      `gorm:"not null" json:"question"`
	RawResponse      string                      `json:"-"`
	IsMultipleChoice bool                        `json:"is_multiple_choice"`
	Choices          datatypes.JSONSlice[Choice] `json:"choices"`
	CorrectAnswer    string                      `json:"correct_answer"`
	Reasons          datatypes.JSONSlice[Reason] `json:"reasons"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// LLMRequestEvent records one completion call.
type LLMRequestEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"index;autoCreateTime" json:"timestamp"`
	Provider  string    `json:"provider"`
	Model     string    `gorm:"index" json:"model"`
	Purpose   string    `gorm:"index" json:"purpose"`

	// ConversationID is the study conversation the call served, 0 if none.
	ConversationID uint `gorm:"index" json:"conversation_id,omitempty"`

	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
	RequestBody  string `json:"request_body,omitempty"`
	ResponseBody string `json:"response_body,omitempty"`
}

// User is an account of the project tracker.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	Phone        string    `gorm:"size:20" json:"phone"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserActivity is one authenticated request made by a user.
type UserActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	IPAddress    string    `gorm:"size:45" json:"ip_address"`
	UserAgent    string    `gorm:"size:255" json:"user_agent"`
	RequestedURL string    `gorm:"size:255" json:"requested_url"`
	Referrer     string    `gorm:"size:255" json:"referrer"`
	Timestamp    time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

// Project groups tasks owned by one user.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task is a unit of work inside a project.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"index;not null" json:"project_id"`
	OwnerID     uint       `gorm:"index;not null" json:"owner_id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Done        bool       `json:"done"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskHistory records one attribute change of a task.
type TaskHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index;not null" json:"task_id"`
	Attribute string    `gorm:"size:50;not null" json:"attribute"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedAt time.Time `gorm:"autoCreateTime" json:"changed_at"`
}
