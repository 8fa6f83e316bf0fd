// Package curator deals playable boards from curated question sets.
package curator

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/abrezinsky/jeopardy/internal/cluestore"
	"github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
)

// BoardCategories is the number of categories on a dealt board
const BoardCategories = 6

// QuestionSetSource provides curated question sets from the clue bank
type QuestionSetSource interface {
	QuestionSets(ctx context.Context) ([]models.QuestionSet, error)
}

// BoardGenerator synthesizes raw clue records for a board
type BoardGenerator interface {
	GenerateBoard(ctx context.Context) ([]models.ClueRecord, error)
}

// BoardProvider produces a new board for a game
type BoardProvider interface {
	NewBoard(ctx context.Context) (models.Board, error)
}

// Deal picks n question sets uniformly at random without replacement.
// sets is never reordered; the returned board holds its own slice.
func Deal(sets []models.QuestionSet, n int, rng *rand.Rand) (models.Board, error) {
	if len(sets) < n {
		return nil, errors.InsufficientCategoriesf("need %d question sets, have %d", n, len(sets))
	}

	pool := make([]models.QuestionSet, len(sets))
	copy(pool, sets)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	return models.Board(pool[:n:n]), nil
}

// Curator builds boards from either the stored clue bank or the generator
type Curator struct {
	log       logger.Logger
	sets      QuestionSetSource
	generator BoardGenerator
	generate  bool

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Curator
type Option func(*Curator)

// WithGenerator makes NewBoard ask gen for fresh clues instead of reading the clue bank
func WithGenerator(gen BoardGenerator) Option {
	return func(c *Curator) {
		c.generator = gen
		c.generate = gen != nil
	}
}

// WithRand sets the random source used for dealing
func WithRand(rng *rand.Rand) Option {
	return func(c *Curator) {
		c.rng = rng
	}
}

// New creates a Curator that deals from sets
func New(log logger.Logger, sets QuestionSetSource, opts ...Option) *Curator {
	c := &Curator{log: log, sets: sets}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Generating reports whether boards come from the generator
func (c *Curator) Generating() bool {
	return c.generate
}

// NewBoard curates question sets from the configured source and deals a board
func (c *Curator) NewBoard(ctx context.Context) (models.Board, error) {
	sets, err := c.questionSets(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	board, err := Deal(sets, BoardCategories, c.rng)
	c.mu.Unlock()
	if err != nil {
		c.log.Warn("Cannot deal board", "question_sets", len(sets), "error", err)
		return nil, err
	}

	c.log.Debug("Dealt board", "generated", c.generate, "categories", len(board))
	return board, nil
}

func (c *Curator) questionSets(ctx context.Context) ([]models.QuestionSet, error) {
	if !c.generate {
		return c.sets.QuestionSets(ctx)
	}

	records, err := c.generator.GenerateBoard(ctx)
	if err != nil {
		return nil, err
	}
	return cluestore.Curate(records)
}

// Ensure Curator implements BoardProvider
var _ BoardProvider = (*Curator)(nil)

// Ensure the oracle client can generate boards
var _ BoardGenerator = (oracle.Client)(nil)
