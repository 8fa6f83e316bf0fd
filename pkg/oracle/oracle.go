// Package oracle grades free-text Jeopardy responses and generates boards
// with a text-generation model.
package oracle

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/models"
)

// Verdict markers the answer-check prompt asks the model to start with
const (
	CorrectMarker   = "Yes. That is correct."
	IncorrectMarker = "No. That is incorrect."
)

// Shape of a generated board
const (
	BoardCategories  = 6
	CluesPerCategory = 5
	GeneratedAirDate = "2024-01-01"
	GeneratedShow    = "0"
	GeneratedRound   = "Jeopardy!"
)

// Verdict is the graded outcome of a response
type Verdict struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// Client defines the operations the game needs from the oracle.
// Implementations never retry; callers decide.
type Client interface {
	// CheckAnswer grades response against the canonical answer for clue
	CheckAnswer(ctx context.Context, clue, answer, response string) (Verdict, error)
	// GenerateBoard synthesizes a full board of clue records
	GenerateBoard(ctx context.Context) ([]models.ClueRecord, error)
}

// ParseVerdict reads a model reply that must begin with CorrectMarker or
// IncorrectMarker. The explanation is everything after the marker,
// including its leading space. Any other reply is a contract violation.
func ParseVerdict(reply string) (Verdict, error) {
	switch {
	case strings.HasPrefix(reply, CorrectMarker):
		return Verdict{Correct: true, Explanation: reply[len(CorrectMarker):]}, nil
	case strings.HasPrefix(reply, IncorrectMarker):
		return Verdict{Correct: false, Explanation: reply[len(IncorrectMarker):]}, nil
	default:
		return Verdict{}, errors.OracleContractViolationf("reply does not start with a verdict marker: %q", truncate(reply, 80))
	}
}

type generatedClue struct {
	Question string `json:"question"`
	Value    string `json:"value"`
	Answer   string `json:"answer"`
}

// ParseBoard validates a generated board of the form
// {"CATEGORY": [{"question","value","answer"}, ...], ...} and flattens it
// into clue records. Anything but exactly BoardCategories categories of
// CluesPerCategory complete clues is rejected whole.
func ParseBoard(data []byte) ([]models.ClueRecord, error) {
	var board map[string][]generatedClue
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidBoardShape, "generated board is not a JSON object of categories")
	}

	if len(board) != BoardCategories {
		return nil, errors.InvalidBoardShapef("generated board has %d categories, want %d", len(board), BoardCategories)
	}

	categories := make([]string, 0, len(board))
	for category := range board {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	records := make([]models.ClueRecord, 0, BoardCategories*CluesPerCategory)
	for _, category := range categories {
		clues := board[category]
		if strings.TrimSpace(category) == "" {
			return nil, errors.InvalidBoardShapef("generated board has an unnamed category")
		}
		if len(clues) != CluesPerCategory {
			return nil, errors.InvalidBoardShapef("category %q has %d clues, want %d", category, len(clues), CluesPerCategory)
		}
		for i, clue := range clues {
			switch {
			case strings.TrimSpace(clue.Question) == "":
				return nil, errors.InvalidBoardShapef("category %q clue %d has no question", category, i)
			case strings.TrimSpace(clue.Value) == "":
				return nil, errors.InvalidBoardShapef("category %q clue %d has no value", category, i)
			case strings.TrimSpace(clue.Answer) == "":
				return nil, errors.InvalidBoardShapef("category %q clue %d has no answer", category, i)
			}
			records = append(records, models.ClueRecord{
				Category:   category,
				AirDate:    GeneratedAirDate,
				Question:   clue.Question,
				Value:      clue.Value,
				Answer:     clue.Answer,
				Round:      GeneratedRound,
				ShowNumber: GeneratedShow,
			})
		}
	}
	return records, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
