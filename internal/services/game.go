package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/game"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
)

// IntentResult reports whether an intent changed the session and the
// resulting snapshot. Rejected intents are not errors.
type IntentResult struct {
	Applied  bool          `json:"applied"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// SubmitResult is the outcome of a response submission
type SubmitResult struct {
	Applied  bool            `json:"applied"`
	Verdict  *oracle.Verdict `json:"verdict,omitempty"`
	Snapshot game.Snapshot   `json:"snapshot"`
}

// GameService keeps the live game sessions
type GameService struct {
	log      logger.Logger
	boards   game.BoardProvider
	grader   game.Grader
	notifier game.Notifier
	opts     game.Options

	mu    sync.RWMutex // guards games
	games map[string]*game.Session
}

// NewGameService creates a new GameService
func NewGameService(log logger.Logger, boards game.BoardProvider, grader game.Grader, opts game.Options) *GameService {
	if opts.Logger == nil {
		opts.Logger = log
	}
	return &GameService{
		log:    log,
		boards: boards,
		grader: grader,
		opts:   opts,
		games:  make(map[string]*game.Session),
	}
}

// SetNotifier sets where new sessions publish their snapshots
func (s *GameService) SetNotifier(n game.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// CreateGame registers a new session without a board
func (s *GameService) CreateGame(ctx context.Context) (*game.Snapshot, error) {
	id := uuid.NewString()

	s.mu.Lock()
	session := game.NewSession(id, s.boards, s.grader, s.notifier, s.opts)
	s.games[id] = session
	total := len(s.games)
	s.mu.Unlock()

	s.log.Info("Game created", "game_id", id, "active_games", total)
	snap := session.Snapshot()
	return &snap, nil
}

// GetGame returns the current snapshot of a game
func (s *GameService) GetGame(ctx context.Context, id string) (*game.Snapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	snap := session.Snapshot()
	return &snap, nil
}

// Snapshot returns the current snapshot of a game by value
func (s *GameService) Snapshot(id string) (game.Snapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// ListGames returns the ids of all live games in sorted order
func (s *GameService) ListGames(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StartGame begins loading a board. The load outlives the request.
func (s *GameService) StartGame(ctx context.Context, id string) (*IntentResult, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	applied := session.StartGame(context.WithoutCancel(ctx))
	return &IntentResult{Applied: applied, Snapshot: session.Snapshot()}, nil
}

// SelectClue opens a clue
func (s *GameService) SelectClue(ctx context.Context, id string, key models.ClueKey) (*IntentResult, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	applied := session.SelectClue(key)
	return &IntentResult{Applied: applied, Snapshot: session.Snapshot()}, nil
}

// UpdateDraft stores the pending response
func (s *GameService) UpdateDraft(ctx context.Context, id, text string) (*IntentResult, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	applied := session.UpdateDraft(text)
	return &IntentResult{Applied: applied, Snapshot: session.Snapshot()}, nil
}

// SubmitResponse grades the pending response. Oracle failures are returned
// as errors; the session keeps the clue open.
func (s *GameService) SubmitResponse(ctx context.Context, id string) (*SubmitResult, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	verdict, err := session.SubmitResponse(ctx)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Applied: verdict != nil, Verdict: verdict, Snapshot: session.Snapshot()}, nil
}

// CloseModal dismisses the verdict dialog
func (s *GameService) CloseModal(ctx context.Context, id string) (*IntentResult, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	applied := session.CloseModal()
	return &IntentResult{Applied: applied, Snapshot: session.Snapshot()}, nil
}

// EndGame removes a game and stops its timers
func (s *GameService) EndGame(ctx context.Context, id string) error {
	s.mu.Lock()
	session, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()

	if !ok {
		return errors.NotFoundf("game %s not found", id)
	}
	session.Close()
	s.log.Info("Game ended", "game_id", id)
	return nil
}

// Close ends every game
func (s *GameService) Close() {
	s.mu.Lock()
	games := s.games
	s.games = make(map[string]*game.Session)
	s.mu.Unlock()

	for _, session := range games {
		session.Close()
	}
}

func (s *GameService) session(id string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.games[id]; ok {
		return session, nil
	}
	return nil, errors.NotFoundf("game %s not found", id)
}
