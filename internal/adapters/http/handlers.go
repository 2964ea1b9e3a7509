package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/socialpulse/visibility-service/internal/application"
)

type scanRequestBody struct {
	Instagram string `json:"instagram"`
	YouTube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
	TikTok    string `json:"tiktok"`
	CallerID  string `json:"caller_id"`
}

func (h *Handler) scanProfile(w http.ResponseWriter, r *http.Request) {
	var body scanRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	caller := application.Caller{
		UserID:   body.CallerID,
		ClientIP: clientIP(r),
	}
	score, err := h.service.ScanProfile(r.Context(), caller, application.ScanRequest{
		Instagram: body.Instagram,
		YouTube:   body.YouTube,
		Facebook:  body.Facebook,
		TikTok:    body.TikTok,
	})
	if err != nil {
		status, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "scan_profile", status, msg, err)
		writeError(w, status, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"score": score})
}

func (h *Handler) discoverSocials(w http.ResponseWriter, r *http.Request) {
	var body application.DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.service.DiscoverSocials(r.Context(), body)
	if err != nil {
		status, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "discover_socials", status, msg, err)
		writeError(w, status, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"socials": result.Socials})
}

func (h *Handler) instagramStats(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	stats, err := h.service.InstagramStats(r.Context(), handle)
	if err != nil {
		status, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "instagram_stats", status, msg, err)
		writeError(w, status, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"data": stats})
}
