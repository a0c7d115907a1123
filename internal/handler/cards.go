package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// CardFinder looks cards up for the public card endpoints
type CardFinder interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Card, error)
	CardByID(ctx context.Context, id int64) (*domain.Card, error)
}

// CardHandlers serve catalog lookups
type CardHandlers struct {
	cards CardFinder
}

// NewCardHandlers creates the handlers
func NewCardHandlers(cards CardFinder) *CardHandlers {
	return &CardHandlers{cards: cards}
}

// HandleSearch fuzzy-matches ?q= against member, group and era
func (h *CardHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := GetQueryParam(r, w, "q")
	if !ok {
		return
	}
	limit, ok := GetLimitParam(r, w, DefaultSearchLimit, MaxSearchLimit)
	if !ok {
		return
	}

	cards, err := h.cards.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, r, ErrMsgSearchFailed, err)
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: cards})
}

// HandleGet returns one card by id
func (h *CardHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidInputError)
		return
	}

	card, err := h.cards.CardByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, ErrMsgSearchFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}
