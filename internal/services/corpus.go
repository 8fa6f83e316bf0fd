package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/abrezinsky/jeopardy/internal/cluestore"
	"github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/logger"
)

// MaxCorpusBytes caps an uploaded corpus
const MaxCorpusBytes = 64 << 20

// CorpusStore is the clue bank the corpus service manages
type CorpusStore interface {
	Import(ctx context.Context, r io.Reader, source string) (*cluestore.Stats, error)
	Stats(ctx context.Context) (*cluestore.Stats, error)
	Empty(ctx context.Context) (bool, error)
}

// CorpusService handles clue bank imports
type CorpusService struct {
	log   logger.Logger
	store CorpusStore
}

// NewCorpusService creates a new CorpusService
func NewCorpusService(log logger.Logger, store CorpusStore) *CorpusService {
	return &CorpusService{log: log, store: store}
}

// Import replaces the clue bank with the JSON corpus read from r
func (s *CorpusService) Import(ctx context.Context, r io.Reader, source string) (*cluestore.Stats, error) {
	if source == "" {
		source = "upload"
	}
	return s.store.Import(ctx, io.LimitReader(r, MaxCorpusBytes), source)
}

// ImportFile replaces the clue bank with the corpus file at path
func (s *CorpusService) ImportFile(ctx context.Context, path string) (*cluestore.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("corpus file %s not found", path)
		}
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	return s.store.Import(ctx, f, path)
}

// EnsureSeeded imports the corpus at path when the clue bank is empty. It
// reports whether an import ran.
func (s *CorpusService) EnsureSeeded(ctx context.Context, path string) (bool, error) {
	empty, err := s.store.Empty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		s.log.Debug("Clue bank already seeded")
		return false, nil
	}
	if path == "" {
		s.log.Warn("Clue bank is empty and no corpus path is configured")
		return false, nil
	}

	if _, err := s.ImportFile(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}

// Stats reports the clue bank size
func (s *CorpusService) Stats(ctx context.Context) (*cluestore.Stats, error) {
	return s.store.Stats(ctx)
}
