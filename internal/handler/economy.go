package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// EconomyReader is the read-only part of economy.Service
type EconomyReader interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error)
	Collection(ctx context.Context, userID string) ([]domain.CollectionEntry, error)
	Inventory(ctx context.Context, userID string) (*domain.Inventory, error)
}

// BalanceResponse is a user's coin balance
type BalanceResponse struct {
	UserID string `json:"user_id"`
	Coins  int64  `json:"coins"`
}

// EconomyHandlers serve balances, collections and leaderboards
type EconomyHandlers struct {
	economy EconomyReader
}

// NewEconomyHandlers creates the handlers
func NewEconomyHandlers(economy EconomyReader) *EconomyHandlers {
	return &EconomyHandlers{economy: economy}
}

// HandleLeaderboard ranks users by coins, cards or drops
func (h *EconomyHandlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := GetLimitParam(r, w, DefaultLeaderboardLimit, MaxLeaderboardLimit)
	if !ok {
		return
	}

	entries, err := h.economy.Leaderboard(r.Context(), chi.URLParam(r, "category"), limit)
	if err != nil {
		respondServiceError(w, r, ErrMsgLeaderboardFailed, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: entries})
}

// HandleBalance returns a user's coins
func (h *EconomyHandlers) HandleBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	coins, err := h.economy.Balance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, ErrMsgBalanceFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Coins: coins})
}

// HandleCollection returns a user's cards with quantities
func (h *EconomyHandlers) HandleCollection(w http.ResponseWriter, r *http.Request) {
	entries, err := h.economy.Collection(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, ErrMsgCollectionFailed, err)
		return
	}
	if entries == nil {
		entries = []domain.CollectionEntry{}
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: entries})
}

// HandleInventory returns a user's inventory summary
func (h *EconomyHandlers) HandleInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.economy.Inventory(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, ErrMsgInventoryFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}
