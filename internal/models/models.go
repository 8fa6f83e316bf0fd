package models

import (
	"encoding/json"
	"fmt"
)

// FlexString is a string type that can be unmarshaled from either a string or a number.
// Trivia corpora are inconsistent about show numbers, which appear as both.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: cannot unmarshal %s", string(data))
}

// String returns the string value
func (f FlexString) String() string {
	return string(f)
}

// ClueRecord is a single trivia fact as sourced from the corpus
type ClueRecord struct {
	Category   string     `json:"category"`
	AirDate    string     `json:"air_date"`
	Question   string     `json:"question"`
	Value      string     `json:"value"` // "" or a dollar string such as "$1,000"
	Answer     string     `json:"answer"`
	Round      string     `json:"round"`
	ShowNumber FlexString `json:"show_number"`
}

// Clue is a curated ClueRecord with its parsed and normalized values
type Clue struct {
	ClueRecord
	RawValue        int `json:"raw_value"`
	NormalizedValue int `json:"normalized_value"`
}

// QuestionSet is the ordered clues of one category from one air date
type QuestionSet []Clue

// Category returns the category name shared by the set
func (qs QuestionSet) Category() string {
	if len(qs) == 0 {
		return ""
	}
	return qs[0].Category
}

// Board is the dealt grid. Board[row] is a category, Board[row][col] a clue.
type Board []QuestionSet

// Cells returns the number of clues on the board
func (b Board) Cells() int {
	n := 0
	for _, qs := range b {
		n += len(qs)
	}
	return n
}

// Clue returns the clue at key, or false if the key is off the board
func (b Board) Clue(key ClueKey) (Clue, bool) {
	if key.Row < 0 || key.Row >= len(b) {
		return Clue{}, false
	}
	if key.Col < 0 || key.Col >= len(b[key.Row]) {
		return Clue{}, false
	}
	return b[key.Row][key.Col], true
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
