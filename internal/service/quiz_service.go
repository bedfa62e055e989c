package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"quizbank/internal/cache"
	"quizbank/internal/model"
	"quizbank/internal/repository"
	"time"

	"go.uber.org/zap"
)

// QuizService runs the session-scoped quiz flow: hand out a prefix of the
// bank with shuffled answers, then score the answers submitted for it
type QuizService struct {
	questionRepo repository.QuestionRepo
	resultRepo   repository.ResultRepo
	sessions     cache.SessionCache
	broadcaster  Broadcaster
	log          *zap.Logger

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewQuizService creates a new quiz service
func NewQuizService(
	questionRepo repository.QuestionRepo,
	resultRepo repository.ResultRepo,
	sessions cache.SessionCache,
	log *zap.Logger,
) *QuizService {
	return &QuizService{
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		sessions:     sessions,
		log:          log,
		now:          time.Now,
		shuffle:      rand.Shuffle,
	}
}

// SetBroadcaster sets the broadcaster for the results feed
func (s *QuizService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Selection is what a client receives when starting a quiz
type Selection struct {
	SessionID string                    `json:"sessionId"`
	Questions []model.SanitizedQuestion `json:"selectedQuestions"`
}

// Score is the outcome of a submission
type Score struct {
	Correct int `json:"success"`
	Total   int `json:"total"`
}

// Select takes the first count questions of the bank, binds them to the
// resolved session and returns them with answers shuffled. A count larger
// than the bank yields the whole bank.
func (s *QuizService) Select(ctx context.Context, count int, sessionID string) (*Selection, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: num must be a positive whole number", ErrInvalidArgument)
	}

	questions, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if count > len(questions) {
		count = len(questions)
	}
	selected := questions[:count]

	sanitized := make([]model.SanitizedQuestion, len(selected))
	for i := range selected {
		sanitized[i] = s.sanitize(&selected[i])
	}

	id, err := s.sessions.ResolveOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if err := s.sessions.AttachQuestions(ctx, id, selected); err != nil {
		return nil, fmt.Errorf("attach questions to session %s: %w", id, err)
	}

	return &Selection{SessionID: id, Questions: sanitized}, nil
}

func (s *QuizService) sanitize(q *model.Question) model.SanitizedQuestion {
	answers := q.AllAnswers()
	s.shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})
	return model.SanitizedQuestion{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Answers: answers,
		Image:   q.Image,
	}
}

// Score compares answers, by position, against the session's questions as
// they currently stand in the bank. Answers past the end of the session's
// question list count toward Total only. The result is logged per day;
// logging failures do not fail the call.
func (s *QuizService) Score(ctx context.Context, sessionID string, answers []string) (*Score, error) {
	if answers == nil {
		return nil, fmt.Errorf("%w: userAnswers must be an array", ErrInvalidArgument)
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, cache.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	bank, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	lookup := newAuthoritativeIndex(bank)

	correct := 0
	for i, answer := range answers {
		if i >= len(session.Questions) {
			continue
		}
		stored, ok := lookup.find(&session.Questions[i])
		if ok && stored.CorrectAnswer == answer {
			correct++
		}
	}

	score := &Score{Correct: correct, Total: len(answers)}
	s.record(ctx, sessionID, score)
	return score, nil
}

// Results returns the game log for a UTC date (YYYY-MM-DD)
func (s *QuizService) Results(ctx context.Context, date string) ([]model.GameResult, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidArgument)
	}
	return s.resultRepo.ListByDate(ctx, date)
}

func (s *QuizService) record(ctx context.Context, sessionID string, score *Score) {
	result := model.NewGameResult(sessionID, score.Correct, score.Total, s.now())

	if err := s.resultRepo.Record(ctx, result); err != nil {
		s.log.Warn("failed to record game result",
			zap.String("sessionId", sessionID),
			zap.Error(err),
		)
		return
	}
	s.log.Info("game recorded",
		zap.String("sessionId", sessionID),
		zap.Int("correct", score.Correct),
		zap.Int("total", score.Total),
	)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(MsgGameRecorded, result)
	}
}

// authoritativeIndex finds the bank copy of a session question: by stable
// id when the session copy has one, otherwise by exact prompt text (first
// match wins)
type authoritativeIndex struct {
	byID     map[string]*model.Question
	byPrompt map[string]*model.Question
}

func newAuthoritativeIndex(bank []model.Question) *authoritativeIndex {
	idx := &authoritativeIndex{
		byID:     make(map[string]*model.Question, len(bank)),
		byPrompt: make(map[string]*model.Question, len(bank)),
	}
	for i := range bank {
		q := &bank[i]
		if q.ID != "" {
			if _, dup := idx.byID[q.ID]; !dup {
				idx.byID[q.ID] = q
			}
		}
		if _, dup := idx.byPrompt[q.Prompt]; !dup {
			idx.byPrompt[q.Prompt] = q
		}
	}
	return idx
}

func (idx *authoritativeIndex) find(q *model.Question) (*model.Question, bool) {
	if q.ID != "" {
		stored, ok := idx.byID[q.ID]
		return stored, ok
	}
	stored, ok := idx.byPrompt[q.Prompt]
	return stored, ok
}
