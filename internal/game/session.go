// Package game implements the single-player Jeopardy session state machine.
package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
)

// DefaultDraftClearDelay is how long the submitted response stays mirrored
// in the input before it is cleared
const DefaultDraftClearDelay = 500 * time.Millisecond

// BoardProvider deals a fresh board
type BoardProvider interface {
	NewBoard(ctx context.Context) (models.Board, error)
}

// Grader checks a free-text response against a clue's canonical answer
type Grader interface {
	CheckAnswer(ctx context.Context, clue, answer, response string) (oracle.Verdict, error)
}

// Notifier receives a snapshot after every state change. Publish is called
// with the session lock held so snapshots arrive in order; implementations
// must not call back into the session.
type Notifier interface {
	Publish(gameID string, snap Snapshot)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(gameID string, snap Snapshot)

// Publish calls f
func (f NotifierFunc) Publish(gameID string, snap Snapshot) {
	f(gameID, snap)
}

// Options tune a session
type Options struct {
	// DraftClearDelay is the pause between mirroring a submitted response
	// and clearing it. Zero clears in the same call.
	DraftClearDelay time.Duration
	Logger          logger.Logger
}

// Session is one game. All transitions are serialized by mu; the board load
// and answer check run with mu released while the session is marked
// loading or submitting.
type Session struct {
	id       string
	provider BoardProvider
	grader   Grader
	notifier Notifier
	log      logger.Logger
	delay    time.Duration
	created  time.Time

	mu           sync.Mutex
	status       Status
	board        models.Board
	selected     *models.ClueKey
	answered     map[models.ClueKey]bool
	score        int
	draft        string
	draftDisplay string
	modal        Modal
	submitting   bool
	lastError    string
	version      uint64
	closed       bool

	clearTimer *time.Timer
	clearSeq   uint64

	wg sync.WaitGroup
}

// NewSession creates a session with no board. notifier may be nil.
func NewSession(id string, provider BoardProvider, grader Grader, notifier Notifier, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	if opts.DraftClearDelay < 0 {
		opts.DraftClearDelay = 0
	}
	return &Session{
		id:       id,
		provider: provider,
		grader:   grader,
		notifier: notifier,
		log:      log.With("game_id", id),
		delay:    opts.DraftClearDelay,
		created:  time.Now(),
		status:   StatusNoBoard,
		answered: make(map[models.ClueKey]bool),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// StartGame begins loading a board in the background. It only runs from
// no_board or load_failed and reports whether a load was started.
func (s *Session) StartGame(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || (s.status != StatusNoBoard && s.status != StatusLoadFailed) {
		return false
	}

	s.status = StatusLoading
	s.board = nil
	s.lastError = ""
	s.publishLocked()

	s.wg.Add(1)
	go s.load(ctx)
	return true
}

func (s *Session) load(ctx context.Context) {
	defer s.wg.Done()

	start := time.Now()
	board, err := s.provider.NewBoard(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = StatusLoadFailed
		s.board = nil
		s.lastError = err.Error()
		s.log.Warn("Board load failed", "error", err)
		s.publishLocked()
		return
	}

	s.status = StatusReady
	s.board = board
	s.answered = make(map[models.ClueKey]bool)
	s.score = 0
	s.selected = nil
	s.draft = ""
	s.draftDisplay = ""
	s.modal = Modal{}
	s.lastError = ""
	s.log.Info("Board ready", "categories", len(board), "duration", time.Since(start))
	s.publishLocked()
}

// Wait blocks until the background board load and any pending draft clear
// have finished
func (s *Session) Wait() {
	s.wg.Wait()
}

// SelectClue opens the clue at key. It is a no-op unless the board is ready,
// no clue is open, no submission is in flight and key is an unanswered cell.
func (s *Session) SelectClue(key models.ClueKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusReady || s.selected != nil || s.submitting {
		return false
	}
	if _, ok := s.board.Clue(key); !ok || s.answered[key] {
		return false
	}

	s.selected = &key
	s.draft = ""
	s.lastError = ""
	s.publishLocked()
	return true
}

// UpdateDraft stores the pending response for the open clue
func (s *Session) UpdateDraft(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil || s.submitting {
		return false
	}

	s.stopClearLocked()
	s.draft = text
	s.draftDisplay = text
	s.publishLocked()
	return true
}

// SubmitResponse grades the draft for the open clue. It returns (nil, nil)
// when there is nothing to submit or a submission is already in flight. On
// an oracle failure the clue stays open and the error is returned.
func (s *Session) SubmitResponse(ctx context.Context) (*oracle.Verdict, error) {
	s.mu.Lock()
	if s.status != StatusReady || s.selected == nil || s.submitting || strings.TrimSpace(s.draft) == "" {
		s.mu.Unlock()
		return nil, nil
	}

	key := *s.selected
	clue, _ := s.board.Clue(key)
	response := s.draft
	s.submitting = true
	s.lastError = ""
	s.publishLocked()
	s.mu.Unlock()

	verdict, err := s.grader.CheckAnswer(ctx, clue.Question, clue.Answer, response)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.lastError = err.Error()
		s.log.Warn("Answer check failed", "clue", key.String(), "error", err)
		s.publishLocked()
		return nil, err
	}

	s.answered[key] = true
	if verdict.Correct {
		s.score += clue.NormalizedValue
	} else {
		s.score -= clue.NormalizedValue
	}
	s.selected = nil
	s.modal = Modal{
		Open:    true,
		Correct: verdict.Correct,
		Title:   TitleWrong,
		Text:    strings.TrimSpace(verdict.Explanation),
	}
	if verdict.Correct {
		s.modal.Title = TitleCorrect
	}
	s.log.Debug("Response graded", "clue", key.String(), "correct", verdict.Correct, "score", s.score)

	// Mirror the submitted text, then clear it.
	s.stopClearLocked()
	s.draft = ""
	s.draftDisplay = response
	s.publishLocked()
	s.scheduleClearLocked()

	return &verdict, nil
}

// CloseModal dismisses the verdict dialog. Closing a closed modal is a no-op.
func (s *Session) CloseModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.modal.Open {
		return false
	}
	s.modal = Modal{}
	s.publishLocked()
	return true
}

// Snapshot returns the current render model
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close stops any pending draft clear. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopClearLocked()
}

func (s *Session) scheduleClearLocked() {
	if s.delay == 0 {
		s.draftDisplay = ""
		s.publishLocked()
		return
	}

	s.clearSeq++
	seq := s.clearSeq
	s.wg.Add(1)
	s.clearTimer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.clearDraftDisplay(seq)
	})
}

func (s *Session) clearDraftDisplay(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.clearSeq || s.closed {
		return
	}
	s.clearTimer = nil
	s.draftDisplay = ""
	s.publishLocked()
}

func (s *Session) stopClearLocked() {
	s.clearSeq++
	if s.clearTimer == nil {
		return
	}
	if s.clearTimer.Stop() {
		s.wg.Done()
	}
	s.clearTimer = nil
}

func (s *Session) publishLocked() {
	s.version++
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(s.id, s.snapshotLocked())
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:       s.id,
		Version:      s.version,
		Status:       s.status,
		Score:        s.score,
		ScoreDisplay: FormatDollars(s.score),
		Draft:        s.draft,
		DraftDisplay: s.draftDisplay,
		Modal:        s.modal,
		Submitting:   s.submitting,
		Answered:     len(s.answered),
		Total:        s.board.Cells(),
		Error:        s.lastError,
		CreatedAt:    s.created,
	}
	if s.status != StatusReady {
		snap.Answered = 0
	}

	if s.selected != nil {
		snap.Selected = s.selected.String()
		if clue, ok := s.board.Clue(*s.selected); ok {
			snap.OpenClue = &OpenClue{
				Key:          snap.Selected,
				Category:     clue.Category,
				Question:     clue.Question,
				Value:        clue.NormalizedValue,
				ValueDisplay: FormatDollars(clue.NormalizedValue),
			}
		}
	}

	snap.Categories = make([]Category, 0, len(s.board))
	for row, qs := range s.board {
		cat := Category{Name: qs.Category(), Cells: make([]Cell, 0, len(qs))}
		for col, clue := range qs {
			key := models.ClueKey{Row: row, Col: col}
			cell := Cell{
				Key:          key.String(),
				Row:          row,
				Col:          col,
				Value:        clue.NormalizedValue,
				ValueDisplay: FormatDollars(clue.NormalizedValue),
				State:        CellAvailable,
			}
			switch {
			case s.answered[key]:
				cell.State = CellAnswered
			case s.selected != nil && *s.selected == key:
				cell.State = CellOpen
				cell.Question = clue.Question
			}
			cat.Cells = append(cat.Cells, cell)
		}
		snap.Categories = append(snap.Categories, cat)
	}

	snap.Complete = snap.Total > 0 && snap.Answered == snap.Total
	return snap
}
