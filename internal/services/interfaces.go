package services

import (
	"context"
	"io"

	"github.com/abrezinsky/jeopardy/internal/cluestore"
	"github.com/abrezinsky/jeopardy/internal/game"
	"github.com/abrezinsky/jeopardy/internal/models"
)

// GameServicer defines the interface for game operations
type GameServicer interface {
	CreateGame(ctx context.Context) (*game.Snapshot, error)
	GetGame(ctx context.Context, id string) (*game.Snapshot, error)
	Snapshot(id string) (game.Snapshot, error)
	ListGames(ctx context.Context) []string
	StartGame(ctx context.Context, id string) (*IntentResult, error)
	SelectClue(ctx context.Context, id string, key models.ClueKey) (*IntentResult, error)
	UpdateDraft(ctx context.Context, id, text string) (*IntentResult, error)
	SubmitResponse(ctx context.Context, id string) (*SubmitResult, error)
	CloseModal(ctx context.Context, id string) (*IntentResult, error)
	EndGame(ctx context.Context, id string) error
}

// CorpusServicer defines the interface for clue bank operations
type CorpusServicer interface {
	Import(ctx context.Context, r io.Reader, source string) (*cluestore.Stats, error)
	ImportFile(ctx context.Context, path string) (*cluestore.Stats, error)
	EnsureSeeded(ctx context.Context, path string) (bool, error)
	Stats(ctx context.Context) (*cluestore.Stats, error)
}

// Ensure concrete types implement interfaces
var (
	_ GameServicer   = (*GameService)(nil)
	_ CorpusServicer = (*CorpusService)(nil)
	_ CorpusStore    = (*cluestore.Store)(nil)
)
