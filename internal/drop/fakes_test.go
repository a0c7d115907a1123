package drop

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PhotocardBot_Go/internal/cooldown"
	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/event"
	"github.com/osse101/PhotocardBot_Go/internal/rarity"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeCatalog has one card per tier unless a tier is listed in empty
type fakeCatalog struct {
	empty map[domain.Rarity]bool
	calls atomic.Int32
	// missEvery makes every n-th lookup miss when > 0
	missEvery int32
	err       error
}

func (c *fakeCatalog) RandomCardOfTier(ctx context.Context, tier domain.Rarity) (*domain.Card, error) {
	n := c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	if c.empty[tier] || (c.missEvery > 0 && n%c.missEvery != 0) {
		return nil, fmt.Errorf("%w: tier %s", domain.ErrCardNotFound, tier)
	}
	return &domain.Card{
		ID:     int64(tier) + 1,
		Number: fmt.Sprintf("PC-%03d", int(tier)+1),
		Group:  "TestGroup",
		Member: "Member" + tier.String(),
		Rarity: tier,
	}, nil
}

func (c *fakeCatalog) CardByID(ctx context.Context, id int64) (*domain.Card, error) {
	return c.RandomCardOfTier(ctx, domain.Rarity(id-1))
}

type fakeLedger struct {
	mu      sync.Mutex
	commits []domain.Ownership
	err     error
}

func (l *fakeLedger) CommitClaim(ctx context.Context, userID string, card domain.Card) (*domain.Ownership, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	own := domain.Ownership{
		ID:     int64(len(l.commits) + 1),
		UserID: userID,
		CardID: card.ID,
		Serial: fmt.Sprintf("%s-%d", card.Number, len(l.commits)+1),
	}
	l.commits = append(l.commits, own)
	return &own, nil
}

func (l *fakeLedger) Commits() []domain.Ownership {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Ownership(nil), l.commits...)
}

type fakeRenderer struct {
	fail bool
}

func (r *fakeRenderer) Render(ctx context.Context, card domain.Card, rc domain.RenderContext) ([]byte, error) {
	if r.fail {
		return nil, errors.New("browser crashed")
	}
	return []byte(fmt.Sprintf("png:%d:%d", card.ID, rc.Slot)), nil
}

type fakeTransport struct {
	mu      sync.Mutex
	posts   []DropView
	updates []Content
	rejects []error
	postErr error
	nextID  int
	opened  []MessageHandle

	// onOpen runs outside the lock, so it may call back into the manager
	onOpen func(MessageHandle)
}

func (tr *fakeTransport) Post(ctx context.Context, channelID string, content Content) (MessageHandle, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.postErr != nil {
		return MessageHandle{}, tr.postErr
	}
	tr.posts = append(tr.posts, content.(DropView))
	tr.nextID++
	return MessageHandle{ChannelID: channelID, MessageID: fmt.Sprintf("msg-%d", tr.nextID)}, nil
}

func (tr *fakeTransport) OpenClaims(ctx context.Context, handle MessageHandle, slots int) error {
	tr.mu.Lock()
	tr.opened = append(tr.opened, handle)
	onOpen := tr.onOpen
	tr.mu.Unlock()
	if onOpen != nil {
		onOpen(handle)
	}
	return nil
}

func (tr *fakeTransport) Update(ctx context.Context, handle MessageHandle, content Content) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.updates = append(tr.updates, content)
	return nil
}

func (tr *fakeTransport) Reject(ctx context.Context, attempt domain.ClaimAttempt, reason error) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.rejects = append(tr.rejects, reason)
	return nil
}

func (tr *fakeTransport) Posts() []DropView {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]DropView(nil), tr.posts...)
}

func (tr *fakeTransport) Updates() []Content {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]Content(nil), tr.updates...)
}

func (tr *fakeTransport) Rejects() []error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]error(nil), tr.rejects...)
}

// recordingBus keeps every published event
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(ctx context.Context, e event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) Count(t event.Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// unrecordedTracker runs actions but fails to store the timestamp afterwards
type unrecordedTracker struct {
	cooldown.Tracker
}

func (u unrecordedTracker) Enforce(ctx context.Context, key string, window time.Duration, now time.Time, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	return &cooldown.RecordError{Subject: key, Err: errors.New("connection reset")}
}

type harness struct {
	mgr       *Manager
	clock     *clockwork.FakeClock
	catalog   *fakeCatalog
	ledger    *fakeLedger
	transport *fakeTransport
	renderer  *fakeRenderer
	bus       *recordingBus
	cooldowns cooldown.Tracker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithTracker(t, cooldown.NewMemoryTracker(cooldown.Config{}))
}

func newHarnessWithTracker(t *testing.T, tracker cooldown.Tracker) *harness {
	t.Helper()
	h := &harness{
		clock:     clockwork.NewFakeClockAt(epoch),
		catalog:   &fakeCatalog{},
		ledger:    &fakeLedger{},
		transport: &fakeTransport{},
		renderer:  &fakeRenderer{},
		bus:       &recordingBus{},
		cooldowns: tracker,
	}
	mgr, err := NewManager(DefaultConfig(), Deps{
		Catalog:   h.catalog,
		Ledger:    h.ledger,
		Transport: h.transport,
		Renderer:  h.renderer,
		Selector:  rarity.NewDefaultSelector(rand.NewSource(7)),
		Cooldowns: h.cooldowns,
		Bus:       h.bus,
		Clock:     h.clock,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = mgr.Shutdown(ctx)
	})
	h.mgr = mgr
	return h
}
