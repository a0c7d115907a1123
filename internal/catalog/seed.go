package catalog

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// SeedFile is the on-disk catalog format:
//
//	[[cards]]
//	number = "BP-001"
//	group = "BLACKPINK"
//	member = "Jisoo"
//	era = "Born Pink"
//	rarity = "Rare"
//	image = "images/bp-001.png"
type SeedFile struct {
	Cards []SeedCard `toml:"cards"`
}

// SeedCard is one catalog entry
type SeedCard struct {
	Number string `toml:"number" validate:"required,max=32"`
	Group  string `toml:"group" validate:"required,max=100"`
	Member string `toml:"member" validate:"required,max=100"`
	Era    string `toml:"era" validate:"max=100"`
	Rarity string `toml:"rarity" validate:"required"`
	Image  string `toml:"image"`
	Series string `toml:"series" validate:"max=100"`
}

var ErrEmptySeed = errors.New(ErrMsgEmptySeed)

var seedValidator = validator.New()

// LoadSeed decodes and validates a TOML catalog. Unknown keys are rejected so
// typos do not silently drop fields.
func LoadSeed(r io.Reader) ([]domain.Card, error) {
	var file SeedFile
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeSeedFailed, err)
	}
	if len(file.Cards) == 0 {
		return nil, ErrEmptySeed
	}

	seen := make(map[string]struct{}, len(file.Cards))
	cards := make([]domain.Card, 0, len(file.Cards))
	for i, sc := range file.Cards {
		if err := seedValidator.Struct(sc); err != nil {
			return nil, fmt.Errorf(ErrMsgInvalidEntryFmt, i, sc.Number, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err))
		}
		rarity, err := domain.ParseRarity(sc.Rarity)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgInvalidEntryFmt, i, sc.Number, err)
		}
		if _, dup := seen[sc.Number]; dup {
			return nil, fmt.Errorf("%w: "+ErrMsgDuplicateNumber, domain.ErrInvalidCatalog, sc.Number)
		}
		seen[sc.Number] = struct{}{}

		cards = append(cards, domain.Card{
			Number:    sc.Number,
			Group:     sc.Group,
			Member:    sc.Member,
			Era:       sc.Era,
			Rarity:    rarity,
			ImagePath: sc.Image,
			Series:    sc.Series,
		})
	}
	return cards, nil
}
