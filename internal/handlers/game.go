package handlers

import (
	"net/http"

	"github.com/abrezinsky/jeopardy/internal/services"
)

// ==================== Game Page ====================

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexPageData{
		Title:     "Jeopardy!",
		GameID:    r.URL.Query().Get("game"),
		Generated: h.opts.Generated,
	}
	h.templates.Index.Execute(w, data)
}

// ==================== Game API ====================

// handleCreateGame creates a session and starts loading its board
func (h *Handlers) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Games.CreateGame(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Games.StartGame(r.Context(), snap.GameID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, GameResponse{ID: snap.GameID, Snapshot: result.Snapshot})
}

func (h *Handlers) handleListGames(w http.ResponseWriter, r *http.Request) {
	games := h.Games.ListGames(r.Context())
	if games == nil {
		games = []string{}
	}
	respondOK(w, GameListResponse{Games: games})
}

func (h *Handlers) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	snap, err := h.Games.GetGame(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, GameResponse{ID: id, Snapshot: *snap})
}

func (h *Handlers) handleEndGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Games.EndGame(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	respondDeleted(w)
}

// handleStartGame retries a board load; it is a no-op unless the game has
// no board or the last load failed
func (h *Handlers) handleStartGame(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, func(id string) (*services.IntentResult, error) {
		return h.Games.StartGame(r.Context(), id)
	})
}

func (h *Handlers) handleSelectClue(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	key, err := req.ClueKey()
	if err != nil {
		respondError(w, err)
		return
	}

	h.intent(w, r, func(id string) (*services.IntentResult, error) {
		return h.Games.SelectClue(r.Context(), id, key)
	})
}

func (h *Handlers) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	h.intent(w, r, func(id string) (*services.IntentResult, error) {
		return h.Games.UpdateDraft(r.Context(), id, req.Text)
	})
}

// handleSubmitResponse grades the draft against the open clue. Oracle
// failures come back as 502 with the game left where it was.
func (h *Handlers) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Games.SubmitResponse(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, result)
}

func (h *Handlers) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, func(id string) (*services.IntentResult, error) {
		return h.Games.CloseModal(r.Context(), id)
	})
}

// intent runs a state change against the game named in the URL and writes
// the result. Rejected intents still answer 200 with applied=false.
func (h *Handlers) intent(w http.ResponseWriter, r *http.Request, apply func(id string) (*services.IntentResult, error)) {
	id, err := gameIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := apply(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, result)
}
