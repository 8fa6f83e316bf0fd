package game

import (
	"strconv"
	"strings"
	"time"
)

// Status is the board lifecycle of a session
type Status string

// Session statuses
const (
	StatusNoBoard    Status = "no_board"
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusLoadFailed Status = "load_failed"
)

// CellState is how a board cell renders
type CellState string

// Cell states
const (
	CellAvailable CellState = "available"
	CellOpen      CellState = "open"
	CellAnswered  CellState = "answered"
)

// Modal titles
const (
	TitleCorrect = "Correct!"
	TitleWrong   = "Wrong!"
)

// Cell is one clue on the rendered board. Question is only set while the
// cell is open.
type Cell struct {
	Key          string    `json:"key"`
	Row          int       `json:"row"`
	Col          int       `json:"col"`
	Value        int       `json:"value"`
	ValueDisplay string    `json:"value_display"`
	State        CellState `json:"state"`
	Question     string    `json:"question,omitempty"`
}

// Category is a board column header and its cells
type Category struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

// OpenClue describes the clue awaiting a response
type OpenClue struct {
	Key          string `json:"key"`
	Category     string `json:"category"`
	Question     string `json:"question"`
	Value        int    `json:"value"`
	ValueDisplay string `json:"value_display"`
}

// Modal is the verdict dialog
type Modal struct {
	Open    bool   `json:"open"`
	Correct bool   `json:"correct"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Snapshot is a render-ready copy of a session. It never carries canonical
// answers.
type Snapshot struct {
	GameID       string     `json:"game_id"`
	Version      uint64     `json:"version"`
	Status       Status     `json:"status"`
	Categories   []Category `json:"categories"`
	Selected     string     `json:"selected,omitempty"`
	OpenClue     *OpenClue  `json:"open_clue,omitempty"`
	Score        int        `json:"score"`
	ScoreDisplay string     `json:"score_display"`
	Draft        string     `json:"draft"`
	DraftDisplay string     `json:"draft_display"`
	Modal        Modal      `json:"modal"`
	Submitting   bool       `json:"submitting"`
	Answered     int        `json:"answered"`
	Total        int        `json:"total"`
	Complete     bool       `json:"complete"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Cell returns the cell with key, or false when it is not on the board
func (s Snapshot) Cell(key string) (Cell, bool) {
	for _, cat := range s.Categories {
		for _, cell := range cat.Cells {
			if cell.Key == key {
				return cell, true
			}
		}
	}
	return Cell{}, false
}

// FormatDollars renders v as US dollars: 1000 -> "$1,000", -400 -> "-$400"
func FormatDollars(v int) string {
	u := uint64(v)
	var b strings.Builder
	if v < 0 {
		u = -u
		b.WriteByte('-')
	}

	digits := strconv.FormatUint(u, 10)
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
