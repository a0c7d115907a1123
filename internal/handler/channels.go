package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/PhotocardBot_Go/internal/logger"
	"github.com/osse101/PhotocardBot_Go/internal/repository"
)

// ChannelRequest names a channel to opt in to auto-spawn
type ChannelRequest struct {
	ChannelID string `json:"channel_id" validate:"required,snowflake"`
}

// ChannelsResponse lists the opted-in channels
type ChannelsResponse struct {
	Channels []string `json:"channels"`
}

// ChannelChangeResponse reports whether a request changed the set
type ChannelChangeResponse struct {
	ChannelID string `json:"channel_id"`
	Changed   bool   `json:"changed"`
}

// ChannelHandlers serve the auto-spawn channel set
type ChannelHandlers struct {
	store repository.Channels
}

// NewChannelHandlers creates the handlers
func NewChannelHandlers(store repository.Channels) *ChannelHandlers {
	return &ChannelHandlers{store: store}
}

// HandleList returns every opted-in channel, sorted
func (h *ChannelHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	channels, err := h.store.Channels(r.Context())
	if err != nil {
		respondServiceError(w, r, ErrMsgListChannelsFailed, err)
		return
	}
	sort.Strings(channels)
	if channels == nil {
		channels = []string{}
	}
	respondJSON(w, http.StatusOK, ChannelsResponse{Channels: channels})
}

// HandleEnable opts a channel in
func (h *ChannelHandlers) HandleEnable(w http.ResponseWriter, r *http.Request) {
	var req ChannelRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Enable channel"); err != nil {
		return
	}

	changed, err := h.store.Enable(r.Context(), req.ChannelID)
	if err != nil {
		respondServiceError(w, r, ErrMsgUpdateChannelFailed, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgChannelEnabled, "channel_id", req.ChannelID, "changed", changed)

	status := http.StatusOK
	if changed {
		status = http.StatusCreated
	}
	respondJSON(w, status, ChannelChangeResponse{ChannelID: req.ChannelID, Changed: changed})
}

// HandleDisable opts the channel in the URL out
func (h *ChannelHandlers) HandleDisable(w http.ResponseWriter, r *http.Request) {
	req := ChannelRequest{ChannelID: chi.URLParam(r, "channelID")}
	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return
	}

	changed, err := h.store.Disable(r.Context(), req.ChannelID)
	if err != nil {
		respondServiceError(w, r, ErrMsgUpdateChannelFailed, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgChannelDisabled, "channel_id", req.ChannelID, "changed", changed)
	respondJSON(w, http.StatusOK, ChannelChangeResponse{ChannelID: req.ChannelID, Changed: changed})
}
