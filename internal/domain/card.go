package domain

import (
	"fmt"
	"strings"
	"time"
)

// Rarity is the quality tier of a photocard. Tiers are ordered from most to
// least common and the order is part of the draw semantics.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

// RarityCount is the number of rarity tiers
const RarityCount = 5

// Rarities lists every tier in draw order
var Rarities = [RarityCount]Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

var rarityNames = [RarityCount]string{
	RarityNameCommon,
	RarityNameUncommon,
	RarityNameRare,
	RarityNameEpic,
	RarityNameLegendary,
}

func (r Rarity) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// Valid reports whether r is one of the known tiers
func (r Rarity) Valid() bool {
	return r >= RarityCommon && r <= RarityLegendary
}

// ParseRarity converts a stored or user supplied name into a Rarity.
// Matching is case-insensitive.
func ParseRarity(name string) (Rarity, error) {
	for i, n := range rarityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRarity, name)
}

// Card is a photocard definition from the catalog
type Card struct {
	ID        int64  `json:"card_id" db:"card_id"`
	Number    string `json:"card_number" db:"card_number"`
	Group     string `json:"group" db:"group_name"`
	Member    string `json:"member" db:"member_name"`
	Era       string `json:"era" db:"era"`
	Rarity    Rarity `json:"rarity" db:"rarity"`
	ImagePath string `json:"image_path" db:"image_path"`
	Series    string `json:"series" db:"series"`
}

// Ownership is one owned copy of a card
type Ownership struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	CardID     int64     `json:"card_id"`
	Serial     string    `json:"card_serial"`
	ObtainedAt time.Time `json:"obtained_at"`
}

// CollectionEntry is a card with the number of copies a user holds
type CollectionEntry struct {
	Card     Card `json:"card"`
	Quantity int  `json:"quantity"`
}

// Inventory summarises what a user holds. ByRarity is indexed by Rarity.
type Inventory struct {
	UserID       string           `json:"user_id"`
	TotalCards   int              `json:"total_cards"`
	UniqueCards  int              `json:"unique_cards"`
	Coins        int64            `json:"coins"`
	DropsClaimed int64            `json:"drops_claimed"`
	ByRarity     [RarityCount]int `json:"by_rarity"`
}

// LeaderboardEntry is one row of a ranking
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Value  int64  `json:"value"`
}

// RenderContext carries the per-slot details the image renderer prints on a card
type RenderContext struct {
	Slot   int
	Serial string
}
