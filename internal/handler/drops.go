package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/drop"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// DropController is the part of drop.Manager the admin API drives
type DropController interface {
	RequestSpawn(ctx context.Context, channelID string, trigger drop.Trigger) (*drop.Record, error)
	ActiveDrops() []*drop.Record
}

// SpawnRequest asks for a drop in a channel. Force skips the channel
// cooldown the way a Discord administrator can.
type SpawnRequest struct {
	ChannelID string `json:"channel_id" validate:"required,snowflake"`
	Force     bool   `json:"force"`
}

// DropResponse describes a live drop
type DropResponse struct {
	DropID    string    `json:"drop_id"`
	ChannelID string    `json:"channel_id"`
	Trigger   string    `json:"trigger"`
	Status    string    `json:"status"`
	Rarities  []string  `json:"rarities"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newDropResponse(rec *drop.Record) DropResponse {
	return DropResponse{
		DropID:    rec.ID.String(),
		ChannelID: rec.ChannelID,
		Trigger:   rec.Trigger.String(),
		Status:    rec.Status().String(),
		Rarities:  rec.Rarities(),
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
}

// DropHandlers serve the admin drop endpoints
type DropHandlers struct {
	drops DropController
}

// NewDropHandlers creates the handlers
func NewDropHandlers(drops DropController) *DropHandlers {
	return &DropHandlers{drops: drops}
}

// HandleSpawn posts a drop
func (h *DropHandlers) HandleSpawn(w http.ResponseWriter, r *http.Request) {
	var req SpawnRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Spawn drop"); err != nil {
		return
	}

	trigger := drop.TriggerCommand
	if req.Force {
		trigger = drop.TriggerAdmin
	}
	rec, err := h.drops.RequestSpawn(r.Context(), req.ChannelID, trigger)
	if err != nil {
		respondServiceError(w, r, ErrMsgSpawnFailed, err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgAdminSpawn, "channel_id", req.ChannelID, "drop_id", rec.ID, "force", req.Force)
	respondJSON(w, http.StatusCreated, newDropResponse(rec))
}

// HandleList returns the live drops ordered by creation time
func (h *DropHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	recs := h.drops.ActiveDrops()
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })

	out := make([]DropResponse, len(recs))
	for i, rec := range recs {
		out[i] = newDropResponse(rec)
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: out})
}
