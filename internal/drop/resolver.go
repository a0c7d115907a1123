package drop

import (
	"fmt"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// Resolve decides a claim attempt against a record. Across any number of
// concurrent calls on the same record at most one returns a card; every
// other call gets ErrNotClaimable and changes nothing. An out of range slot
// is rejected with ErrInvalidSlot before the race is entered, and an attempt
// at or after the deadline never wins.
func Resolve(rec *Record, attempt domain.ClaimAttempt) (domain.Card, error) {
	if attempt.Slot < 0 || attempt.Slot >= len(rec.Options) {
		return domain.Card{}, fmt.Errorf("%w: %d not in [0,%d)", domain.ErrInvalidSlot, attempt.Slot, len(rec.Options))
	}
	if rec.Expired(attempt.At) {
		return domain.Card{}, fmt.Errorf("%w: drop %s expired", domain.ErrNotClaimable, rec.ID)
	}
	if !rec.transition(domain.DropClaimed) {
		return domain.Card{}, fmt.Errorf("%w: drop %s is %s", domain.ErrNotClaimable, rec.ID, rec.Status())
	}
	return rec.Options[attempt.Slot], nil
}
