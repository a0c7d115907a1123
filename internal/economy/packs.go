package economy

import (
	"fmt"
	"sort"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/rarity"
)

// Pack is a purchasable bundle of cards drawn with a rarity boost
type Pack struct {
	Name  string
	Price int64
	Cards int
	Boost float64
}

// DefaultPacks returns the basic, premium and deluxe packs
func DefaultPacks() map[string]Pack {
	return map[string]Pack{
		domain.PackBasic:   {Name: domain.PackBasic, Price: PackBasicPrice, Cards: PackBasicCards, Boost: PackBasicBoost},
		domain.PackPremium: {Name: domain.PackPremium, Price: PackPremiumPrice, Cards: PackPremiumCards, Boost: PackPremiumBoost},
		domain.PackDeluxe:  {Name: domain.PackDeluxe, Price: PackDeluxePrice, Cards: PackDeluxeCards, Boost: PackDeluxeBoost},
	}
}

// WithBoosts overrides pack boosts, e.g. from the rarityBoostByPackTier
// setting. Every boost must be a known pack and within the selector's range.
func WithBoosts(packs map[string]Pack, boosts map[string]float64, weights rarity.Weights) (map[string]Pack, error) {
	out := make(map[string]Pack, len(packs))
	for name, p := range packs {
		out[name] = p
	}
	for name, boost := range boosts {
		p, ok := out[name]
		if !ok {
			return nil, fmt.Errorf(ErrMsgUnknownPackBoostFmt, name, domain.ErrUnknownPack)
		}
		if boost < 0 || boost > rarity.MaxBoost(weights) {
			return nil, fmt.Errorf(ErrMsgInvalidPackBoostFmt, name, boost, rarity.ErrBoostExceedsBase)
		}
		p.Boost = boost
		out[name] = p
	}
	return out, nil
}

// SellPrice is what a card of the given rarity sells back for
func SellPrice(r domain.Rarity) int64 {
	switch r {
	case domain.RarityUncommon:
		return SellPriceUncommon
	case domain.RarityRare:
		return SellPriceRare
	case domain.RarityEpic:
		return SellPriceEpic
	case domain.RarityLegendary:
		return SellPriceLegendary
	default:
		return SellPriceCommon
	}
}

// sortedPacks lists packs cheapest first
func sortedPacks(packs map[string]Pack) []Pack {
	list := make([]Pack, 0, len(packs))
	for _, p := range packs {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Price != list[j].Price {
			return list[i].Price < list[j].Price
		}
		return list[i].Name < list[j].Name
	})
	return list
}
