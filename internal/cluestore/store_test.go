package cluestore_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abrezinsky/jeopardy/internal/cluestore"
	apperrors "github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/repository/mock"
	"github.com/abrezinsky/jeopardy/internal/testutil"
)

func corpusJSON(t *testing.T, categories int) string {
	t.Helper()
	data, err := json.Marshal(testutil.CorpusRecords(categories))
	if err != nil {
		t.Fatalf("marshal corpus: %v", err)
	}
	return string(data)
}

func TestStore_QuestionSets(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	testutil.SeedCorpus(t, repo, 7)
	store := cluestore.New(logger.Discard(), repo)

	sets, err := store.QuestionSets(context.Background())
	if err != nil {
		t.Fatalf("QuestionSets failed: %v", err)
	}
	if len(sets) != 7 {
		t.Errorf("expected 7 sets, got %d", len(sets))
	}
}

func TestStore_QuestionSets_RepositoryError(t *testing.T) {
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	repo.ListCluesError = errors.New("database locked")
	store := cluestore.New(logger.Discard(), repo)

	if _, err := store.QuestionSets(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestStore_Import(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	store := cluestore.New(logger.Discard(), repo)
	ctx := context.Background()

	stats, err := store.Import(ctx, strings.NewReader(corpusJSON(t, 6)), "data/jeopardy.json")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if stats.Records != 30 || stats.QuestionSets != 6 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	got, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if got.Records != 30 || got.QuestionSets != 6 {
		t.Errorf("unexpected stats: %+v", got)
	}
	if got.Source != "data/jeopardy.json" {
		t.Errorf("expected source to be recorded, got %q", got.Source)
	}
	if got.ImportedAt == "" {
		t.Error("expected import time to be recorded")
	}

	empty, err := store.Empty(ctx)
	if err != nil || empty {
		t.Errorf("expected non-empty store, got empty=%v err=%v", empty, err)
	}
}

func TestStore_Import_MalformedJSONKeepsExistingBank(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	testutil.SeedCorpus(t, repo, 6)
	store := cluestore.New(logger.Discard(), repo)
	ctx := context.Background()

	if _, err := store.Import(ctx, strings.NewReader(`{not json`), "upload"); err == nil {
		t.Fatal("expected parse error")
	}

	count, _ := repo.CountClues(ctx)
	if count != 30 {
		t.Errorf("expected existing bank to survive, got %d records", count)
	}
}

func TestStore_Import_MalformedValue(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	store := cluestore.New(logger.Discard(), repo)

	corpus := `[{"category":"A","air_date":"2000-01-01","question":"q","value":"$ten","answer":"a"}]`
	_, err := store.Import(context.Background(), strings.NewReader(corpus), "upload")
	if !apperrors.Is(err, apperrors.ErrMalformedValue) {
		t.Errorf("expected malformed value error, got %v", err)
	}
}

func TestStore_Import_StorageError(t *testing.T) {
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	repo.ReplaceCluesError = errors.New("disk full")
	store := cluestore.New(logger.Discard(), repo)

	_, err := store.Import(context.Background(), strings.NewReader(corpusJSON(t, 1)), "upload")
	if apperrors.KindOf(err) != apperrors.ErrInternal {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestStore_Import_SettingErrorIsNotFatal(t *testing.T) {
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	repo.SetSettingError = errors.New("read only")
	store := cluestore.New(logger.Discard(), repo)

	if _, err := store.Import(context.Background(), strings.NewReader(corpusJSON(t, 1)), "upload"); err != nil {
		t.Errorf("expected import to succeed, got %v", err)
	}
}

func TestStore_Stats_CountError(t *testing.T) {
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	repo.CountCluesError = errors.New("database locked")
	store := cluestore.New(logger.Discard(), repo)

	if _, err := store.Stats(context.Background()); err == nil {
		t.Error("expected error")
	}
	if _, err := store.Empty(context.Background()); err == nil {
		t.Error("expected error from Empty")
	}
}
