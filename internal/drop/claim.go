package drop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// Claim is the entry point for a user's claim attempt. Cheap checks run
// first (is there a drop, is the slot in range), then the user's claim
// cooldown, and only then the race itself. A user who is on cooldown or
// picked a bad slot never touches the drop's status, and losing the race or
// a failed ledger commit does not consume the cooldown. Every rejection is
// reported back through the transport.
func (m *Manager) Claim(ctx context.Context, attempt domain.ClaimAttempt) (*ClaimOutcome, error) {
	if attempt.At.IsZero() {
		attempt.At = m.deps.Clock.Now()
	}

	rec, ok := m.live.Get(attempt.ChannelID)
	if !ok {
		err := fmt.Errorf("%w: no active drop", domain.ErrNotClaimable)
		m.reject(ctx, attempt, err)
		return nil, err
	}
	if attempt.Slot < 0 || attempt.Slot >= len(rec.Options) {
		err := fmt.Errorf("%w: %d not in [0,%d)", domain.ErrInvalidSlot, attempt.Slot, len(rec.Options))
		m.reject(ctx, attempt, err)
		return nil, err
	}

	var outcome *ClaimOutcome
	var ledgerErr *LedgerError
	key := domain.ClaimCooldownKey(attempt.UserID)
	err := m.deps.Cooldowns.Enforce(ctx, key, m.config.UserCooldown, attempt.At, func() error {
		var claimErr error
		outcome, claimErr = m.OnClaim(ctx, attempt)
		return claimErr
	})
	var recordErr *cooldown.RecordError
	if errors.As(err, &recordErr) && outcome != nil {
		// The drop is already decided and the winner announced
		logger.FromContext(ctx).Error(LogMsgCooldownAlert,
			"dropID", outcome.DropID, "userID", attempt.UserID, "error", err)
		return outcome, nil
	}
	if err != nil {
		if errors.As(err, &ledgerErr) {
			m.reject(ctx, attempt, err)
			return outcome, err
		}
		m.publishCooldownBlocked(ctx, CooldownKindClaim, err)
		m.reject(ctx, attempt, err)
		return nil, err
	}
	return outcome, nil
}

// ClaimCooldownRemaining reports how long until the user may claim again
func (m *Manager) ClaimCooldownRemaining(ctx context.Context, userID string) (time.Duration, error) {
	return m.deps.Cooldowns.Remaining(ctx, domain.ClaimCooldownKey(userID), m.config.UserCooldown, m.deps.Clock.Now())
}

// Consume handles claim attempts from a stream until it is closed or ctx is
// done. Each attempt is handled on its own goroutine; Consume returns once
// all of them have finished.
func (m *Manager) Consume(ctx context.Context, attempts <-chan domain.ClaimAttempt) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case attempt, ok := <-attempts:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = m.Claim(ctx, attempt)
			}()
		case <-ctx.Done():
			return
		}
	}
}

// reject notifies the user and records the rejection
func (m *Manager) reject(ctx context.Context, attempt domain.ClaimAttempt, reason error) {
	log := logger.FromContext(ctx)
	code := rejectionReason(reason)
	log.Debug(LogMsgClaimRejected, "channelID", attempt.ChannelID, "userID", attempt.UserID, "reason", code)

	if err := m.deps.Transport.Reject(ctx, attempt, reason); err != nil {
		log.Warn(LogMsgRejectFailed, "channelID", attempt.ChannelID, "userID", attempt.UserID, "error", err)
	}
	m.publish(ctx, event.New(event.DropClaimRejected, event.ClaimRejectedPayloadV1{
		ChannelID: attempt.ChannelID,
		UserID:    attempt.UserID,
		Reason:    code,
	}))
}

func rejectionReason(err error) string {
	var ledgerErr *LedgerError
	switch {
	case errors.Is(err, domain.ErrInvalidSlot):
		return ReasonInvalidSlot
	case errors.Is(err, domain.ErrNotClaimable):
		return ReasonNotClaimable
	case errors.Is(err, cooldown.ErrOnCooldown{}):
		return ReasonCooldown
	case errors.As(err, &ledgerErr):
		return ReasonLedger
	default:
		return ReasonInternal
	}
}
