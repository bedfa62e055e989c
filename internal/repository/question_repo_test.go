package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"quizbank/internal/model"
	"reflect"
	"sync"
	"testing"
)

func newTestQuestionRepo(t *testing.T) (QuestionRepo, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "questions.json")
	return NewFileQuestionRepo(path), path
}

func sampleQuestion(prompt string) model.Question {
	return model.Question{
		Prompt:           prompt,
		CorrectAnswer:    prompt + "-right",
		IncorrectAnswers: []string{prompt + "-a", prompt + "-b"},
	}
}

func TestFileQuestionRepoMissingFileIsEmpty(t *testing.T) {
	repo, path := newTestQuestionRepo(t)

	got, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty bank, got %d questions", len(got))
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("reading must not create the file, stat err = %v", err)
	}
}

func TestFileQuestionRepoAppendThenList(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestQuestionRepo(t)

	first, err := repo.Append(ctx, sampleQuestion("q1"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.ID == "" {
		t.Fatal("Append must assign an id")
	}
	if _, err := repo.Append(ctx, sampleQuestion("q2")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 2 || got[0].Prompt != "q1" || got[1].Prompt != "q2" {
		t.Fatalf("unexpected bank order: %+v", got)
	}

	again, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Fatal("repeated reads without writes must be identical")
	}
}

func TestFileQuestionRepoAssignsOwnIDs(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestQuestionRepo(t)

	a := sampleQuestion("A?")
	a.ID = "x"
	b := sampleQuestion("B?")
	b.ID = "x"

	first, err := repo.Append(ctx, a)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := repo.Append(ctx, b)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.ID == "x" || second.ID == "x" || first.ID == second.ID {
		t.Fatalf("ids = %q, %q; want distinct server-assigned ids", first.ID, second.ID)
	}

	b.ID = first.ID
	replaced, err := repo.ReplaceAt(ctx, 1, b)
	if err != nil {
		t.Fatalf("ReplaceAt: %v", err)
	}
	if replaced.ID != second.ID {
		t.Fatalf("replace changed id to %q, want %q", replaced.ID, second.ID)
	}

	got, _ := repo.ListAll(ctx)
	if got[0].ID == got[1].ID {
		t.Fatalf("duplicate ids in bank: %+v", got)
	}
}

func TestFileQuestionRepoReplaceAt(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestQuestionRepo(t)
	orig, _ := repo.Append(ctx, sampleQuestion("q1"))

	updated, err := repo.ReplaceAt(ctx, 0, sampleQuestion("q1-edited"))
	if err != nil {
		t.Fatalf("ReplaceAt: %v", err)
	}
	if updated.ID != orig.ID {
		t.Fatalf("replace must keep id %q, got %q", orig.ID, updated.ID)
	}

	got, _ := repo.ListAll(ctx)
	if got[0].Prompt != "q1-edited" {
		t.Fatalf("prompt = %q", got[0].Prompt)
	}

	for _, idx := range []int{-1, 1, 10} {
		if _, err := repo.ReplaceAt(ctx, idx, sampleQuestion("x")); !errors.Is(err, ErrQuestionNotFound) {
			t.Errorf("ReplaceAt(%d) err = %v, want ErrQuestionNotFound", idx, err)
		}
	}
}

func TestFileQuestionRepoRemoveAt(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestQuestionRepo(t)
	for _, p := range []string{"q1", "q2", "q3"} {
		if _, err := repo.Append(ctx, sampleQuestion(p)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	removed, err := repo.RemoveAt(ctx, 1)
	if err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if removed.Prompt != "q2" {
		t.Fatalf("removed %q, want q2", removed.Prompt)
	}

	got, _ := repo.ListAll(ctx)
	if len(got) != 2 || got[0].Prompt != "q1" || got[1].Prompt != "q3" {
		t.Fatalf("unexpected bank after remove: %+v", got)
	}

	if _, err := repo.RemoveAt(ctx, 2); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestFileQuestionRepoCorruptFile(t *testing.T) {
	repo, path := newTestQuestionRepo(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.ListAll(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := repo.Append(context.Background(), sampleQuestion("q")); err == nil {
		t.Fatal("expected Append to fail on unreadable bank")
	}
}

func TestFileQuestionRepoConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestQuestionRepo(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := repo.Append(ctx, sampleQuestion("q")); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != writers {
		t.Fatalf("got %d questions, want %d (lost update)", len(got), writers)
	}
}

func TestBankDocumentNeverNullQuestions(t *testing.T) {
	doc := bankDocument(defaultBankID, &model.QuestionBank{})
	qs, ok := doc["questions"].([]model.Question)
	if !ok || qs == nil {
		t.Fatalf("questions = %#v, want empty slice", doc["questions"])
	}
	if doc["_id"] != defaultBankID {
		t.Fatalf("_id = %v", doc["_id"])
	}
}
