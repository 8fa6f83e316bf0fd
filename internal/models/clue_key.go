package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ClueKey identifies a board cell. Row is the category index, Col the clue
// position inside the category.
type ClueKey struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the key as clue-{row}-{col}
func (k ClueKey) String() string {
	return fmt.Sprintf("clue-%d-%d", k.Row, k.Col)
}

// ParseClueKey parses the clue-{row}-{col} form
func ParseClueKey(s string) (ClueKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || parts[0] != "clue" {
		return ClueKey{}, fmt.Errorf("invalid clue key %q", s)
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil || row < 0 {
		return ClueKey{}, fmt.Errorf("invalid clue key %q", s)
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil || col < 0 {
		return ClueKey{}, fmt.Errorf("invalid clue key %q", s)
	}
	return ClueKey{Row: row, Col: col}, nil
}
