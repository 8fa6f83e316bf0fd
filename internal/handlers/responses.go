package handlers

import (
	"github.com/abrezinsky/jeopardy/internal/cluestore"
	"github.com/abrezinsky/jeopardy/internal/game"
)

// GameResponse is the response for game creation and lookup
type GameResponse struct {
	ID       string        `json:"id"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// GameListResponse lists the ids of live games
type GameListResponse struct {
	Games []string `json:"games"`
}

// CorpusStatsResponse describes the stored clue bank
type CorpusStatsResponse struct {
	*cluestore.Stats
	Generated bool `json:"generated"`
}
