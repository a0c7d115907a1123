package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// GameSettings are the tunable drop and pack rules
type GameSettings struct {
	ExpiryWindowSeconds    int                `toml:"expiryWindowSeconds" validate:"gte=1"`
	UserCooldownSeconds    int                `toml:"userCooldownSeconds" validate:"gte=1"`
	ChannelCooldownSeconds int                `toml:"channelCooldownSeconds" validate:"gte=1"`
	SpawnIntervalSeconds   int                `toml:"spawnIntervalSeconds" validate:"gte=1"`
	SpawnProbability       float64            `toml:"spawnProbability" validate:"gte=0,lte=1"`
	SlotsPerDrop           int                `toml:"slotsPerDrop" validate:"gte=1,lte=9"`
	RarityBoostByPackTier  map[string]float64 `toml:"rarityBoostByPackTier" validate:"dive,keys,oneof=basic premium deluxe,endkeys,gte=0,lte=0.5"`
}

// DefaultGameSettings returns the stock rules
func DefaultGameSettings() GameSettings {
	return GameSettings{
		ExpiryWindowSeconds:    DefaultExpiryWindowSeconds,
		UserCooldownSeconds:    DefaultUserCooldownSeconds,
		ChannelCooldownSeconds: DefaultChannelCooldownSeconds,
		SpawnIntervalSeconds:   DefaultSpawnIntervalSeconds,
		SpawnProbability:       DefaultSpawnProbability,
		SlotsPerDrop:           DefaultSlotsPerDrop,
		RarityBoostByPackTier: map[string]float64{
			domain.PackBasic:   0,
			domain.PackPremium: 0.1,
			domain.PackDeluxe:  0.2,
		},
	}
}

// ExpiryWindow is how long a drop stays claimable
func (g GameSettings) ExpiryWindow() time.Duration {
	return time.Duration(g.ExpiryWindowSeconds) * time.Second
}

// UserCooldown is the minimum time between two successful claims by one user
func (g GameSettings) UserCooldown() time.Duration {
	return time.Duration(g.UserCooldownSeconds) * time.Second
}

// ChannelCooldown is the minimum time between two spawns in one channel
func (g GameSettings) ChannelCooldown() time.Duration {
	return time.Duration(g.ChannelCooldownSeconds) * time.Second
}

// SpawnInterval is the auto-spawn tick period
func (g GameSettings) SpawnInterval() time.Duration {
	return time.Duration(g.SpawnIntervalSeconds) * time.Second
}

// Validate checks the struct tags
func (g GameSettings) Validate() error {
	if err := validator.New().Struct(g); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidGameSettings, err)
	}
	return nil
}

// LoadGameSettings starts from the defaults, applies the TOML file named by
// GAME_SETTINGS_PATH if set, then individual environment overrides.
func LoadGameSettings() (GameSettings, error) {
	g := DefaultGameSettings()

	if path := os.Getenv(EnvGameSettingsPath); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return g, fmt.Errorf("%s: %w", ErrMsgReadSettingsFile, err)
		}
		dec := toml.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&g); err != nil {
			return g, fmt.Errorf("%s: %w", ErrMsgInvalidGameSettings, err)
		}
	}

	g.ExpiryWindowSeconds = getEnvAsInt(EnvExpiryWindowSeconds, g.ExpiryWindowSeconds)
	g.UserCooldownSeconds = getEnvAsInt(EnvUserCooldownSeconds, g.UserCooldownSeconds)
	g.ChannelCooldownSeconds = getEnvAsInt(EnvChannelCooldownSeconds, g.ChannelCooldownSeconds)
	g.SpawnIntervalSeconds = getEnvAsInt(EnvSpawnIntervalSeconds, g.SpawnIntervalSeconds)
	g.SpawnProbability = getEnvAsFloat(EnvSpawnProbability, g.SpawnProbability)
	g.SlotsPerDrop = getEnvAsInt(EnvSlotsPerDrop, g.SlotsPerDrop)

	if raw := os.Getenv(EnvRarityBoostByPackTier); raw != "" {
		boosts, err := parseBoosts(raw)
		if err != nil {
			return g, err
		}
		for tier, boost := range boosts {
			g.RarityBoostByPackTier[tier] = boost
		}
	}

	return g, g.Validate()
}

// parseBoosts reads "basic=0,premium=0.1,deluxe=0.2"
func parseBoosts(raw string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		tier, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("%s: %q", ErrMsgInvalidBoostEntry, entry)
		}
		boost, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %w", ErrMsgInvalidBoostEntry, entry, err)
		}
		out[strings.ToLower(strings.TrimSpace(tier))] = boost
	}
	return out, nil
}
