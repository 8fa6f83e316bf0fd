package handlers

import "github.com/abrezinsky/jeopardy/internal/models"

// SelectRequest names a clue either by key or by row and column
type SelectRequest struct {
	Key string `json:"key,omitempty"`
	Row *int   `json:"row,omitempty"`
	Col *int   `json:"col,omitempty"`
}

// ClueKey resolves the request to a board position
func (r SelectRequest) ClueKey() (models.ClueKey, error) {
	if r.Key != "" {
		key, err := models.ParseClueKey(r.Key)
		if err != nil {
			return models.ClueKey{}, BadRequest(err.Error())
		}
		return key, nil
	}
	if r.Row == nil || r.Col == nil {
		return models.ClueKey{}, BadRequest("key or row and col are required")
	}
	if *r.Row < 0 || *r.Col < 0 {
		return models.ClueKey{}, BadRequest("invalid clue position")
	}
	return models.ClueKey{Row: *r.Row, Col: *r.Col}, nil
}

// DraftRequest replaces the response draft
type DraftRequest struct {
	Text string `json:"text"`
}
