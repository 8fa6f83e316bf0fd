package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// handleQRCode renders a PNG QR code pointing at the game page, so another
// screen can follow the same game
func (h *Handlers) handleQRCode(w http.ResponseWriter, r *http.Request) {
	target := h.shareURL(r)

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// shareURL builds the page address from BaseURL, falling back to the host
// the request came in on
func (h *Handlers) shareURL(r *http.Request) string {
	base := strings.TrimSuffix(h.opts.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}

	target := base + "/"
	if gameID := r.URL.Query().Get("game"); gameID != "" {
		target += "?game=" + url.QueryEscape(gameID)
	}
	return target
}
