package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/tastetrack-storefront/pkg/config"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	redisclient "github.com/angelmondragon/tastetrack-storefront/pkg/redis"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Identity is the signed-in profile the storefront keeps per session.
type Identity struct {
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Role          enums.Role `json:"role"`
	UpstreamToken string     `json:"upstream_token"`
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	IdentityKey(sessionID string) string
}

// Manager stores and resolves session identities in Redis.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// IdentityReader exposes the read surface needed by middleware.
type IdentityReader interface {
	Payload(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// NewManager constructs a session manager backed by Redis. Identities live
// as long as the access tokens that point at them.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: client, keyer: client, ttl: ttl}, nil
}

// Save writes the identity for sessionID.
func (m *Manager) Save(ctx context.Context, sessionID string, identity Identity) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	return m.store.Set(ctx, m.keyer.IdentityKey(sessionID), string(payload), m.ttl)
}

// Payload returns the raw stored identity so callers can tell a missing
// record from an unreadable one.
func (m *Manager) Payload(ctx context.Context, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.IdentityKey(sessionID))
	if err != nil {
		if redisclient.IsNil(err) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return raw, nil
}

// Load returns the decoded identity for sessionID.
func (m *Manager) Load(ctx context.Context, sessionID string) (Identity, error) {
	raw, err := m.Payload(ctx, sessionID)
	if err != nil {
		return Identity{}, err
	}
	return Decode(raw)
}

// Revoke deletes the identity tied to sessionID.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.IdentityKey(sessionID))
}

// Decode parses a stored identity payload.
func Decode(payload string) (Identity, error) {
	var identity Identity
	if err := json.Unmarshal([]byte(payload), &identity); err != nil {
		return Identity{}, fmt.Errorf("decoding identity: %w", err)
	}
	if strings.TrimSpace(identity.Email) == "" && identity.Role == "" {
		return Identity{}, fmt.Errorf("decoding identity: empty record")
	}
	return identity, nil
}

// DecodeRole parses a stored identity payload and returns only its role.
func DecodeRole(payload string) (enums.Role, error) {
	identity, err := Decode(payload)
	if err != nil {
		return "", err
	}
	return identity.Role, nil
}

// NewSessionID produces the identifier used as the JWT jti and the Redis key suffix.
func NewSessionID() string {
	return uuid.NewString()
}
