package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// DefaultCodeTTL is how long a freshly minted room code admits students.
const DefaultCodeTTL = 5 * time.Minute

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 6
)

// RoomCodeStore persists room codes. Rows outlive their logical TTL; expiry
// is detected lazily on read so Validate can tell "expired" from "absent".
type RoomCodeStore interface {
	Put(ctx context.Context, code domain.RoomCode) error
	// Get returns domain.ErrNotFound when no row exists for the code.
	Get(ctx context.Context, code string) (domain.RoomCode, error)
}

// CategoryStore is the persistence collaborator for categories. Create
// returns domain.ErrDuplicateKey for an existing key; Get, Update, and
// Delete return domain.ErrNotFound for an unknown one.
type CategoryStore interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, key string) (domain.Category, error)
	Create(ctx context.Context, category domain.Category) error
	Update(ctx context.Context, key, readingText string, questions []domain.Question) error
	Delete(ctx context.Context, key string) error
}

// RoomCodeManager mints and validates join codes. One code is active per
// manager; generating again supersedes the previous one (the old row may
// linger in the store until it lapses).
type RoomCodeManager struct {
	codes      RoomCodeStore
	categories CategoryStore
	ttl        time.Duration
	checkDups  bool
	now        func() time.Time
	rnd        *rand.Rand

	mu        sync.Mutex
	active    *domain.RoomCode
	countdown *countdown
	expired   func(code string)
}

// NewRoomCodeManager wires the manager with its two stores. checkCollisions
// enables a bounded retry when a freshly drawn code already exists; the
// default deployment leaves it off and accepts the low collision odds.
func NewRoomCodeManager(codes RoomCodeStore, categories CategoryStore, ttl time.Duration, checkCollisions bool) *RoomCodeManager {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &RoomCodeManager{
		codes:      codes,
		categories: categories,
		ttl:        ttl,
		checkDups:  checkCollisions,
		now:        time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock replaces the time source, for deterministic expiry in tests.
func (m *RoomCodeManager) WithClock(now func() time.Time) *RoomCodeManager {
	m.now = now
	return m
}

// OnExpire registers a single observer notified once when the active code's
// countdown crosses zero. Later ticks never re-fire it.
func (m *RoomCodeManager) OnExpire(fn func(code string)) {
	m.mu.Lock()
	m.expired = fn
	m.mu.Unlock()
}

// Generate mints a code for the given category, persists it, and starts the
// expiry countdown. An empty key means no category is selected.
func (m *RoomCodeManager) Generate(ctx context.Context, categoryKey string) (domain.RoomCode, error) {
	if categoryKey == "" {
		return domain.RoomCode{}, fmt.Errorf("%w: select a category before generating a code", domain.ErrInvalidState)
	}
	if _, err := m.categories.Get(ctx, categoryKey); err != nil {
		return domain.RoomCode{}, err
	}

	code, err := m.mintCode(ctx)
	if err != nil {
		return domain.RoomCode{}, err
	}
	rc := domain.RoomCode{
		Code:        code,
		CategoryKey: categoryKey,
		ExpiresAt:   m.now().Add(m.ttl),
	}
	if err := m.codes.Put(ctx, rc); err != nil {
		return domain.RoomCode{}, fmt.Errorf("store room code: %w", err)
	}

	m.mu.Lock()
	if m.countdown != nil {
		m.countdown.Cancel()
	}
	m.active = &rc
	m.countdown = newCountdown(m.ttl, time.Second, m.now, nil, func() {
		m.mu.Lock()
		fn := m.expired
		m.mu.Unlock()
		if fn != nil {
			fn(rc.Code)
		}
	})
	m.countdown.Start()
	m.mu.Unlock()
	return rc, nil
}

func (m *RoomCodeManager) mintCode(ctx context.Context) (string, error) {
	const maxAttempts = 5
	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[m.rnd.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if !m.checkDups {
			return code, nil
		}
		if _, err := m.codes.Get(ctx, code); err != nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not mint a unique room code after %d attempts", maxAttempts)
}

// Validate resolves a code to its category snapshot. A code that once
// existed but lapsed reports domain.ErrExpired, never domain.ErrNotFound.
func (m *RoomCodeManager) Validate(ctx context.Context, code string) (domain.Category, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	rc, err := m.codes.Get(ctx, code)
	if err != nil {
		return domain.Category{}, err
	}
	if rc.Expired(m.now()) {
		return domain.Category{}, domain.ErrExpired
	}
	category, err := m.categories.Get(ctx, rc.CategoryKey)
	if err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// Active returns the currently tracked code, if any.
func (m *RoomCodeManager) Active() (domain.RoomCode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return domain.RoomCode{}, false
	}
	return *m.active, true
}

// Remaining returns the active code's time to live, clamped at zero.
func (m *RoomCodeManager) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return 0
	}
	if left := m.active.ExpiresAt.Sub(m.now()); left > 0 {
		return left
	}
	return 0
}

// Stop cancels the expiry countdown. Idempotent.
func (m *RoomCodeManager) Stop() {
	m.mu.Lock()
	if m.countdown != nil {
		m.countdown.Cancel()
	}
	m.mu.Unlock()
}

// FormatRemaining renders a countdown as minutes:seconds with the seconds
// zero-padded, e.g. "4:07".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
