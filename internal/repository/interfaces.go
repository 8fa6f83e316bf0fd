package repository

import (
	"context"

	"github.com/abrezinsky/jeopardy/internal/models"
)

// ClueRepository defines clue bank operations
type ClueRepository interface {
	ListClues(ctx context.Context) ([]models.ClueRecord, error)
	CountClues(ctx context.Context) (int, error)
	ReplaceClues(ctx context.Context, records []models.ClueRecord) (int, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	ClueRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
