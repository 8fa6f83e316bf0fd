package mock

import (
	"context"

	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ListCluesError = errors.New("database error")
//	store := cluestore.New(log, mockRepo)
//	_, err := store.QuestionSets(ctx)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Clue Errors =====
	ListCluesError    error
	CountCluesError   error
	ReplaceCluesError error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Clue Methods =====

func (m *Repository) ListClues(ctx context.Context) ([]models.ClueRecord, error) {
	if m.ListCluesError != nil {
		return nil, m.ListCluesError
	}
	return m.FullRepository.ListClues(ctx)
}

func (m *Repository) CountClues(ctx context.Context) (int, error) {
	if m.CountCluesError != nil {
		return 0, m.CountCluesError
	}
	return m.FullRepository.CountClues(ctx)
}

func (m *Repository) ReplaceClues(ctx context.Context, records []models.ClueRecord) (int, error) {
	if m.ReplaceCluesError != nil {
		return 0, m.ReplaceCluesError
	}
	return m.FullRepository.ReplaceClues(ctx, records)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
