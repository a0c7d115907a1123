package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/drop"
)

// titleCase turns a stored name like "deluxe" into a display label.
// Casers hold state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// formatDuration renders a wait as "4m 3s" or "12s", rounding partial seconds up
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs >= 60 {
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}

// cooldownStatus is the value shown for a cooldown field
func cooldownStatus(remaining time.Duration) string {
	if remaining <= 0 {
		return MsgReady
	}
	return fmt.Sprintf("**%s**", formatDuration(remaining))
}

// formatFriendlyError maps service errors onto messages users can act on
func formatFriendlyError(err error) string {
	var onCooldown cooldown.ErrOnCooldown
	var ledgerErr *drop.LedgerError
	switch {
	case errors.As(err, &onCooldown):
		return fmt.Sprintf("%s\nWait for: **%s**", MsgCooldownActive, formatDuration(onCooldown.Remaining))
	case errors.Is(err, domain.ErrOnCooldown):
		return MsgCooldownActive
	case errors.As(err, &ledgerErr):
		return MsgLedgerFailed
	case errors.Is(err, domain.ErrAlreadyActive):
		return MsgAlreadyActive
	case errors.Is(err, domain.ErrInsufficientCatalog):
		return MsgInsufficientCatalog
	case errors.Is(err, domain.ErrNotClaimable):
		return MsgNotClaimable
	case errors.Is(err, domain.ErrInvalidSlot):
		return MsgInvalidSlot
	case errors.Is(err, domain.ErrInsufficientFunds):
		return MsgInsufficientFunds
	case errors.Is(err, domain.ErrUnknownPack):
		return MsgUnknownPack
	case errors.Is(err, domain.ErrCardNotOwned):
		return MsgCardNotOwned
	case errors.Is(err, domain.ErrCardNotFound):
		return MsgCardNotFound
	case errors.Is(err, domain.ErrInvalidRecipient):
		return MsgInvalidRecipient
	case errors.Is(err, domain.ErrUnknownCategory):
		return MsgUnknownCategory
	case errors.Is(err, domain.ErrUserNotFound):
		return MsgUserNotFound
	default:
		return MsgGenericError
	}
}

// rarityMarker returns the coloured dot for a tier
func rarityMarker(r domain.Rarity) string {
	if m, ok := rarityMarkers[r.String()]; ok {
		return m
	}
	return "⚪"
}

// cardLine is the one-line summary of a card used in lists
func cardLine(c domain.Card) string {
	return fmt.Sprintf("%s **%s** (%s) · %s · `#%d`", rarityMarker(c.Rarity), c.Member, c.Group, c.Rarity, c.ID)
}

// era falls back to N/A for cards without one
func era(c domain.Card) string {
	if strings.TrimSpace(c.Era) == "" {
		return "N/A"
	}
	return c.Era
}
