package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedConversation(t *testing.T, repo StudyRepo, name string, questions ...string) *StudyConversation {
	t.Helper()
	ctx := context.Background()
	conv := &StudyConversation{Name: name}
	require.NoError(t, repo.CreateConversation(ctx, conv))

	var qs []*StudyQuestion
	for _, text := range questions {
		qs = append(qs, &StudyQuestion{
			Question:      text,
			CorrectAnswer: "A",
			Choices: []Choice{
				{Letter: "A", Text: "yes", Reason: "because", Correct: true},
				{Letter: "B", Text: "no", Reason: "because not"},
			},
			Reasons: []Reason{{Letter: "A", Reason: "because"}, {Letter: "B", Reason: "because not"}},
		})
	}
	require.NoError(t, repo.SaveCycle(ctx, conv.ID, qs, "kw one, kw two"))
	return conv
}

func TestConversationLookups(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudyRepo()
	ctx := context.Background()

	first := seedConversation(t, repo, "Photosynthesis")
	second := seedConversation(t, repo, "Go interfaces")

	byName, err := repo.ConversationByName(ctx, "Photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byName.ID)

	_, err = repo.ConversationByName(ctx, "photosynthesis")
	assert.True(t, errors.Is(err, ErrNotFound), "lookup is case-sensitive")

	latest, err := repo.LatestConversation(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	all, err := repo.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Photosynthesis", all[0].Name)
}

func TestConversationNameUnique(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudyRepo()
	ctx := context.Background()

	require.NoError(t, repo.CreateConversation(ctx, &StudyConversation{Name: "dup"}))
	assert.Error(t, repo.CreateConversation(ctx, &StudyConversation{Name: "dup"}))
}

func TestOpenConversationExistingName(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudyRepo()
	ctx := context.Background()

	first, created, err := repo.OpenConversation(ctx, "Tides")
	require.NoError(t, err)
	assert.True(t, created)

	other := &StudyConversation{Name: "Rivers"}
	require.NoError(t, repo.CreateConversation(ctx, other))

	again, created, err := repo.OpenConversation(ctx, "Tides")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	byOther, created, err := repo.OpenConversation(ctx, "Rivers")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, other.ID, byOther.ID)

	all, err := repo.ListConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveCyclePersistsQuestionsAndKeywords(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudyRepo()
	ctx := context.Background()

	conv := seedConversation(t, repo, "Cells", "What is a ribosome?", "What is a nucleus?")

	texts, err := repo.QuestionTexts(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is a ribosome?", "What is a nucleus?"}, texts)

	reloaded, err := repo.Conversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "kw one, kw two", reloaded.Keywords)

	qs, err := repo.ListQuestions(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	require.Len(t, qs[0].Choices, 2)
	assert.True(t, qs[0].Choices[0].Correct)
	assert.Equal(t, "because not", qs[0].Reasons[1].Reason)
}

func TestSaveCycleUnknownConversationRollsBack(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudyRepo()
	ctx := context.Background()

	err := repo.SaveCycle(ctx, 777, []*StudyQuestion{{Question: "orphan"}}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	texts, err := repo.QuestionTexts(ctx, 777)
	require.NoError(t, err)
	assert.Empty(t, texts, "insert must be rolled back")
}

func TestQuestionNeighbors(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudyRepo()
	ctx := context.Background()

	conv := seedConversation(t, repo, "Rivers", "q1", "q2", "q3")
	other := seedConversation(t, repo, "Mountains", "m1")
	qs, err := repo.ListQuestions(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, qs, 3)

	prev, next, err := repo.Neighbors(ctx, &qs[1])
	require.NoError(t, err)
	assert.Equal(t, qs[0].ID, prev)
	assert.Equal(t, qs[2].ID, next)

	prev, next, err = repo.Neighbors(ctx, &qs[2])
	require.NoError(t, err)
	assert.Equal(t, qs[1].ID, prev)
	assert.Zero(t, next, "neighbors never cross conversations")

	latest, err := repo.LatestQuestion(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "m1", latest.Question)

	_, err = repo.LatestQuestion(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSetSeedPromptKeepsFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudyRepo()
	ctx := context.Background()

	conv := seedConversation(t, repo, "Tides")
	require.NoError(t, repo.SetSeedPrompt(ctx, conv.ID, "first prompt"))
	require.NoError(t, repo.SetSeedPrompt(ctx, conv.ID, "second prompt"))

	got, err := repo.Conversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "first prompt", got.SeedPrompt)
}
