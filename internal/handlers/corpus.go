package handlers

import (
	"net/http"
)

// ==================== Clue Bank API ====================

func (h *Handlers) handleCorpusStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Corpus.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, CorpusStatsResponse{Stats: stats, Generated: h.opts.Generated})
}

// handleCorpusImport replaces the clue bank with the JSON array in the body
func (h *Handlers) handleCorpusImport(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	stats, err := h.Corpus.Import(r.Context(), r.Body, source)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, stats)
}
