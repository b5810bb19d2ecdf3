package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   uint      // id > After
	Before  uint      // id < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set

	ConversationID uint // study conversation when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider       string
	Model          string
	Purpose        string
	ConversationID uint
	InputTokens    int
	OutputTokens   int
	LatencyMs      int64
	Success        bool
	ErrorMessage   string
	RequestBody    string
	ResponseBody   string
}

// PurposeUsage aggregates LLM calls by purpose.
type PurposeUsage struct {
	Purpose      string `json:"purpose"`
	Calls        int    `json:"calls"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	AvgLatencyMs int64  `json:"avg_latency_ms"`
}

// ModelUsage aggregates LLM calls by model.
type ModelUsage struct {
	Model        string `json:"model"`
	Calls        int    `json:"calls"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns the event with the given id, or nil if none exists.
	GetLLMEvent(ctx context.Context, id uint) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// StudyRepo persists study conversations and their questions.
type StudyRepo interface {
	CreateConversation(ctx context.Context, conv *StudyConversation) error

	// OpenConversation returns the conversation called name, inserting it
	// when absent. Concurrent callers with the same name get the same row;
	// created reports whether this call inserted it.
	OpenConversation(ctx context.Context, name string) (conv *StudyConversation, created bool, err error)

	ConversationByName(ctx context.Context, name string) (*StudyConversation, error)
	Conversation(ctx context.Context, id uint) (*StudyConversation, error)
	LatestConversation(ctx context.Context) (*StudyConversation, error)
	ListConversations(ctx context.Context) ([]StudyConversation, error)

	// SetSeedPrompt records the first prompt sent for a conversation. It
	// leaves an existing seed prompt untouched.
	SetSeedPrompt(ctx context.Context, conversationID uint, prompt string) error

	// QuestionTexts returns the question texts of a conversation in
	// creation order.
	QuestionTexts(ctx context.Context, conversationID uint) ([]string, error)

	// SaveCycle inserts the questions of one generation cycle and updates
	// the conversation keywords in a single transaction.
	SaveCycle(ctx context.Context, conversationID uint, questions []*StudyQuestion, keywords string) error

	Question(ctx context.Context, id uint) (*StudyQuestion, error)
	ListQuestions(ctx context.Context, conversationID uint) ([]StudyQuestion, error)
	LatestQuestion(ctx context.Context, conversationID uint) (*StudyQuestion, error)

	// Neighbors returns the ids of the questions created immediately before
	// and after q in its conversation. Either is 0 when absent.
	Neighbors(ctx context.Context, q *StudyQuestion) (prev, next uint, err error)
}

// ProjectRepo persists users, projects, tasks and task history.
type ProjectRepo interface {
	CreateUser(ctx context.Context, u *User) error
	User(ctx context.Context, id uint) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	UpdateUser(ctx context.Context, u *User) error
	AppendActivity(ctx context.Context, a *UserActivity) error
	ListActivity(ctx context.Context, userID uint, limit int) ([]UserActivity, error)

	CreateProject(ctx context.Context, p *Project) error
	Project(ctx context.Context, id uint) (*Project, error)
	ProjectByName(ctx context.Context, ownerID uint, name string) (*Project, error)
	ListProjects(ctx context.Context, ownerID uint) ([]Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	// DeleteProject removes the project, its tasks and their history.
	DeleteProject(ctx context.Context, id uint) error

	CreateTask(ctx context.Context, t *Task) error
	Task(ctx context.Context, id uint) (*Task, error)
	// ListTasksByOwner returns tasks sorted by deadline, undated last.
	ListTasksByOwner(ctx context.Context, ownerID uint) ([]Task, error)
	// ListTasksByProject returns tasks sorted by deadline, undated last.
	ListTasksByProject(ctx context.Context, projectID uint) ([]Task, error)
	// UpdateTask saves t and appends history in one transaction.
	UpdateTask(ctx context.Context, t *Task, history []TaskHistory) error
	DeleteTask(ctx context.Context, id uint) error
	TaskHistory(ctx context.Context, taskID uint) ([]TaskHistory, error)
}
