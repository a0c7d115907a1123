package drop

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// Catalog looks up card definitions. RandomCardOfTier returns an error
// wrapping domain.ErrCardNotFound when the tier has no cards.
type Catalog interface {
	RandomCardOfTier(ctx context.Context, tier domain.Rarity) (*domain.Card, error)
	CardByID(ctx context.Context, id int64) (*domain.Card, error)
}

// Ledger persists the result of a won claim
type Ledger interface {
	CommitClaim(ctx context.Context, userID string, card domain.Card) (*domain.Ownership, error)
}

// Renderer turns a card into an image
type Renderer interface {
	Render(ctx context.Context, card domain.Card, rc domain.RenderContext) ([]byte, error)
}

// MessageHandle identifies a posted drop message
type MessageHandle struct {
	ChannelID string
	MessageID string
}

// Transport delivers drop messages and claim rejections to users. Post only
// sends the message; OpenClaims is called once the drop knows its handle and
// is where the transport invites claims (reactions, buttons).
type Transport interface {
	Post(ctx context.Context, channelID string, content Content) (MessageHandle, error)
	OpenClaims(ctx context.Context, handle MessageHandle, slots int) error
	Update(ctx context.Context, handle MessageHandle, content Content) error
	Reject(ctx context.Context, attempt domain.ClaimAttempt, reason error) error
}

// Content is one of DropView, ClaimedView or ExpiredView
type Content interface {
	isContent()
}

// OptionView is one slot of a posted drop. Image is nil when rendering failed.
type OptionView struct {
	Slot  int
	Card  domain.Card
	Image []byte
}

// DropView is the initial drop post
type DropView struct {
	DropID    uuid.UUID
	Options   []OptionView
	Highest   domain.Rarity
	ExpiresAt time.Time
}

// ClaimedView replaces the drop post once someone wins it
type ClaimedView struct {
	DropID       uuid.UUID
	UserID       string
	Slot         int
	Card         domain.Card
	Ownership    *domain.Ownership
	LedgerFailed bool
}

// ExpiredView replaces the drop post when nobody claimed it in time
type ExpiredView struct {
	DropID  uuid.UUID
	Options []domain.Card
}

func (DropView) isContent()    {}
func (ClaimedView) isContent() {}
func (ExpiredView) isContent() {}
