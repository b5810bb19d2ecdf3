package quiz

import (
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
)

// questionsLoadedMsg carries the stored questions of the conversation.
type questionsLoadedMsg struct {
	Questions []store.StudyQuestion
	Err       error
}

// moreQuestionsMsg is sent when a generation cycle finishes.
type moreQuestionsMsg struct {
	Result *study.CycleResult
	Err    error
}
