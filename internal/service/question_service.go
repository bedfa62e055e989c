package service

import (
	"context"
	"errors"
	"fmt"
	"quizbank/internal/model"
	"quizbank/internal/repository"
)

// QuestionService handles question bank CRUD operations
type QuestionService struct {
	questionRepo repository.QuestionRepo
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo repository.QuestionRepo) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
	}
}

// List returns the whole bank in store order
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.ListAll(ctx)
}

// Create appends a question to the end of the bank
func (s *QuestionService) Create(ctx context.Context, question model.Question) (model.Question, error) {
	if err := normalizeQuestion(&question); err != nil {
		return model.Question{}, err
	}
	return s.questionRepo.Append(ctx, question)
}

// Update replaces the question at index
func (s *QuestionService) Update(ctx context.Context, index int, question model.Question) (model.Question, error) {
	if err := normalizeQuestion(&question); err != nil {
		return model.Question{}, err
	}
	updated, err := s.questionRepo.ReplaceAt(ctx, index, question)
	return updated, mapRepoErr(err)
}

// Delete removes the question at index and returns it
func (s *QuestionService) Delete(ctx context.Context, index int) (model.Question, error) {
	removed, err := s.questionRepo.RemoveAt(ctx, index)
	return removed, mapRepoErr(err)
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrQuestionNotFound) {
		return ErrQuestionNotFound
	}
	return err
}

// normalizeQuestion rejects questions that cannot be asked or scored
func normalizeQuestion(q *model.Question) error {
	if q.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidArgument)
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("%w: correctAnswer is required", ErrInvalidArgument)
	}
	if q.IncorrectAnswers == nil {
		q.IncorrectAnswers = []string{}
	}
	return nil
}
