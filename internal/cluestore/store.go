package cluestore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/internal/repository"
)

// Settings keys written on every import
const (
	SettingCorpusSource     = "corpus_source"
	SettingCorpusImportedAt = "corpus_imported_at"
)

// Stats summarizes the clue bank
type Stats struct {
	Records      int    `json:"records"`
	QuestionSets int    `json:"question_sets"`
	Source       string `json:"source,omitempty"`
	ImportedAt   string `json:"imported_at,omitempty"`
}

// Store holds the raw corpus and serves curated question sets from it
type Store struct {
	log  logger.Logger
	repo repository.FullRepository
}

// New creates a Store over repo
func New(log logger.Logger, repo repository.FullRepository) *Store {
	return &Store{log: log, repo: repo}
}

// QuestionSets loads every stored record and runs the curation pipeline
func (s *Store) QuestionSets(ctx context.Context) ([]models.QuestionSet, error) {
	records, err := s.repo.ListClues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clues: %w", err)
	}

	sets, err := Curate(records)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Curated clue bank", "records", len(records), "question_sets", len(sets))
	return sets, nil
}

// Import decodes a JSON corpus from r and replaces the clue bank with it.
// The corpus is curated once before storing so a malformed value rejects
// the whole import instead of poisoning later deals.
func (s *Store) Import(ctx context.Context, r io.Reader, source string) (*Stats, error) {
	records, err := LoadCorpus(r)
	if err != nil {
		return nil, err
	}

	sets, err := Curate(records)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.ReplaceClues(ctx, records)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("store corpus: %w", err))
	}

	importedAt := time.Now().UTC().Format(time.RFC3339)
	if err := s.repo.SetSetting(ctx, SettingCorpusSource, source); err != nil {
		s.log.Warn("Failed to record corpus source", "error", err)
	}
	if err := s.repo.SetSetting(ctx, SettingCorpusImportedAt, importedAt); err != nil {
		s.log.Warn("Failed to record corpus import time", "error", err)
	}

	s.log.Info("Imported corpus", "source", source, "records", n, "question_sets", len(sets))
	return &Stats{Records: n, QuestionSets: len(sets), Source: source, ImportedAt: importedAt}, nil
}

// Stats reports record and playable set counts for the stored corpus
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	count, err := s.repo.CountClues(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clues: %w", err)
	}
	sets, err := s.QuestionSets(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Records: count, QuestionSets: len(sets)}
	stats.Source, _ = s.setting(ctx, SettingCorpusSource)
	stats.ImportedAt, _ = s.setting(ctx, SettingCorpusImportedAt)
	return stats, nil
}

// Empty reports whether the clue bank has no records
func (s *Store) Empty(ctx context.Context) (bool, error) {
	count, err := s.repo.CountClues(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *Store) setting(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err == repository.ErrNotFound {
		return "", nil
	}
	return value, err
}
