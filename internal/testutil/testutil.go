package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// CorpusRecords builds a raw corpus with the given number of complete
// five-clue categories. Values are listed out of order so curation has
// something to sort.
func CorpusRecords(categories int) []models.ClueRecord {
	values := []string{"$600", "$200", "$1,000", "$400", "$800"}
	var records []models.ClueRecord
	for c := 0; c < categories; c++ {
		category := fmt.Sprintf("CATEGORY %d", c+1)
		for i, v := range values {
			records = append(records, models.ClueRecord{
				Category:   category,
				AirDate:    "2004-12-31",
				Question:   fmt.Sprintf("'Clue %d for %s'", i+1, category),
				Value:      v,
				Answer:     fmt.Sprintf("Answer %d-%d", c+1, i+1),
				Round:      "Jeopardy!",
				ShowNumber: "4680",
			})
		}
	}
	return records
}

// SeedCorpus stores CorpusRecords(categories) in repo
func SeedCorpus(t *testing.T, repo repository.ClueRepository, categories int) {
	t.Helper()
	if _, err := repo.ReplaceClues(context.Background(), CorpusRecords(categories)); err != nil {
		t.Fatalf("failed to seed corpus: %v", err)
	}
}
