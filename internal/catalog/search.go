package catalog

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// searchItems implements fuzzy.Source over card labels
type searchItems []domain.Card

func (s searchItems) Len() int { return len(s) }

func (s searchItems) String(i int) string {
	return Label(s[i])
}

// Label is the text a card is searched and listed by
func Label(card domain.Card) string {
	parts := []string{card.Number, card.Group, card.Member}
	if card.Era != "" {
		parts = append(parts, card.Era)
	}
	return strings.Join(parts, " ")
}

// Search returns up to limit cards whose label fuzzily matches query, best
// match first.
func (c *Cached) Search(ctx context.Context, query string, limit int) ([]domain.Card, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var all searchItems
	for _, tier := range domain.Rarities {
		cards, err := c.cardsOfTier(ctx, tier)
		if err != nil {
			return nil, err
		}
		all = append(all, cards...)
	}

	matches := fuzzy.FindFrom(query, all)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]domain.Card, len(matches))
	for i, m := range matches {
		results[i] = all[m.Index]
	}
	logger.FromContext(ctx).Debug(LogMsgSearchExecuted, "query", query, "matches", len(results))
	return results, nil
}
