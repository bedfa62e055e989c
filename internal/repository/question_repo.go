package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"quizbank/internal/model"
	"sync"

	"github.com/google/uuid"
)

// ErrQuestionNotFound is returned when an index is outside the bank
var ErrQuestionNotFound = errors.New("question not found")

// QuestionRepo is the persistent question bank. Questions are addressed by
// their position in bank order.
type QuestionRepo interface {
	ListAll(ctx context.Context) ([]model.Question, error)
	Append(ctx context.Context, question model.Question) (model.Question, error)
	ReplaceAt(ctx context.Context, index int, question model.Question) (model.Question, error)
	RemoveAt(ctx context.Context, index int) (model.Question, error)
}

// bankStore loads and saves the whole bank at once
type bankStore interface {
	load(ctx context.Context) (*model.QuestionBank, error)
	save(ctx context.Context, bank *model.QuestionBank) error
}

// bankRepo implements the index-addressed operations on top of whole-bank
// read-modify-write. mu serializes writers so no update is lost.
type bankRepo struct {
	mu    sync.Mutex
	store bankStore
}

func (r *bankRepo) ListAll(ctx context.Context) ([]model.Question, error) {
	bank, err := r.store.load(ctx)
	if err != nil {
		return nil, err
	}
	return bank.Questions, nil
}

func (r *bankRepo) Append(ctx context.Context, question model.Question) (model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bank, err := r.store.load(ctx)
	if err != nil {
		return model.Question{}, err
	}

	// Ids are server-assigned so no two questions can share one
	question.ID = uuid.New().String()
	bank.Questions = append(bank.Questions, question)

	if err := r.store.save(ctx, bank); err != nil {
		return model.Question{}, err
	}
	return question, nil
}

func (r *bankRepo) ReplaceAt(ctx context.Context, index int, question model.Question) (model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bank, err := r.store.load(ctx)
	if err != nil {
		return model.Question{}, err
	}
	if index < 0 || index >= len(bank.Questions) {
		return model.Question{}, ErrQuestionNotFound
	}

	question.ID = bank.Questions[index].ID
	bank.Questions[index] = question

	if err := r.store.save(ctx, bank); err != nil {
		return model.Question{}, err
	}
	return question, nil
}

func (r *bankRepo) RemoveAt(ctx context.Context, index int) (model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bank, err := r.store.load(ctx)
	if err != nil {
		return model.Question{}, err
	}
	if index < 0 || index >= len(bank.Questions) {
		return model.Question{}, ErrQuestionNotFound
	}

	removed := bank.Questions[index]
	bank.Questions = append(bank.Questions[:index], bank.Questions[index+1:]...)

	if err := r.store.save(ctx, bank); err != nil {
		return model.Question{}, err
	}
	return removed, nil
}

type fileBankStore struct {
	path string
}

// NewFileQuestionRepo creates a question repository backed by a JSON file of
// the form {"questions": [...]}. A missing file reads as an empty bank.
func NewFileQuestionRepo(path string) QuestionRepo {
	return &bankRepo{store: &fileBankStore{path: path}}
}

func (s *fileBankStore) load(_ context.Context) (*model.QuestionBank, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &model.QuestionBank{Questions: []model.Question{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var bank model.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if bank.Questions == nil {
		bank.Questions = []model.Question{}
	}
	return &bank, nil
}

func (s *fileBankStore) save(_ context.Context, bank *model.QuestionBank) error {
	data, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("encode question bank: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write question bank: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, creating the parent directory if needed.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
