package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/tastetrack-storefront/internal/coupons"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
	redisclient "github.com/angelmondragon/tastetrack-storefront/pkg/redis"
)

// SnapshotStore persists serialized carts. pkg/redis.Client satisfies it.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type snapshot struct {
	Lines      []Line `json:"lines"`
	CouponCode string `json:"coupon_code,omitempty"`
}

// Sessions keeps one cart per browser session. Calls for the same session
// are serialized in-process.
type Sessions struct {
	store   SnapshotStore
	catalog coupons.Catalog
	ttl     time.Duration
	logg    *logger.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessions(store SnapshotStore, catalog coupons.Catalog, ttl time.Duration, logg *logger.Logger) (*Sessions, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("coupon catalog required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Sessions{
		store:   store,
		catalog: catalog,
		ttl:     ttl,
		logg:    logg,
		locks:   make(map[string]*sessionLock),
	}, nil
}

// Get loads the cart for sessionID. A missing snapshot is an empty cart.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*Store, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	unlock := s.lock(sessionID)
	defer unlock()
	return s.load(ctx, sessionID)
}

// Update loads the session's cart, runs fn and saves the result. If fn
// returns an error nothing is saved. The TTL slides on every save.
func (s *Sessions) Update(ctx context.Context, sessionID string, fn func(*Store) error) (*Store, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	unlock := s.lock(sessionID)
	defer unlock()

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(store); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, store); err != nil {
		return nil, err
	}
	return store, nil
}

// Discard deletes the session's snapshot.
func (s *Sessions) Discard(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	unlock := s.lock(sessionID)
	defer unlock()
	if err := s.store.Del(ctx, s.store.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

func (s *Sessions) load(ctx context.Context, sessionID string) (*Store, error) {
	store := NewStore(s.catalog)
	raw, err := s.store.Get(ctx, s.store.CartKey(sessionID))
	if err != nil {
		if redisclient.IsNil(err) {
			return store, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.warn(ctx, sessionID, "discarding unreadable cart snapshot")
		return store, nil
	}
	for _, line := range snap.Lines {
		store.AddItem(line.Item, line.Quantity)
	}
	if snap.CouponCode != "" && !store.restoreCoupon(snap.CouponCode) {
		s.warn(ctx, sessionID, fmt.Sprintf("dropping coupon %s no longer in catalog", snap.CouponCode))
	}
	return store, nil
}

func (s *Sessions) save(ctx context.Context, sessionID string, store *Store) error {
	snap := snapshot{Lines: store.Lines()}
	if c, ok := store.AppliedCoupon(); ok {
		snap.CouponCode = c.Code
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *Sessions) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

func (s *Sessions) warn(ctx context.Context, sessionID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), msg)
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
