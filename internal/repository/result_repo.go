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
)

// ResultRepo is the append-only per-day game log
type ResultRepo interface {
	Record(ctx context.Context, result *model.GameResult) error
	ListByDate(ctx context.Context, date string) ([]model.GameResult, error)
}

type fileResultRepo struct {
	dir   string
	locks sync.Map // date -> *sync.Mutex
}

// NewFileResultRepo stores each day's games in dir/games_<date>.json
func NewFileResultRepo(dir string) ResultRepo {
	return &fileResultRepo{dir: dir}
}

func (r *fileResultRepo) path(date string) string {
	return filepath.Join(r.dir, fmt.Sprintf("games_%s.json", date))
}

func (r *fileResultRepo) lock(date string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(date, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (r *fileResultRepo) Record(_ context.Context, result *model.GameResult) error {
	date, err := result.Date()
	if err != nil {
		return err
	}

	mu := r.lock(date)
	mu.Lock()
	defer mu.Unlock()

	games, err := r.read(date)
	if err != nil {
		return err
	}
	games = append(games, *result)

	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("encode game log: %w", err)
	}
	if err := writeFileAtomic(r.path(date), data); err != nil {
		return fmt.Errorf("write game log %s: %w", date, err)
	}
	return nil
}

func (r *fileResultRepo) ListByDate(_ context.Context, date string) ([]model.GameResult, error) {
	mu := r.lock(date)
	mu.Lock()
	defer mu.Unlock()

	return r.read(date)
}

func (r *fileResultRepo) read(date string) ([]model.GameResult, error) {
	data, err := os.ReadFile(r.path(date))
	if errors.Is(err, os.ErrNotExist) {
		return []model.GameResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read game log %s: %w", date, err)
	}

	games := []model.GameResult{}
	if len(data) == 0 {
		return games, nil
	}
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("decode game log %s: %w", date, err)
	}
	return games, nil
}
