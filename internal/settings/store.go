package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/swap"
	"github.com/redis/go-redis/v9"
)

const (
	valuePrefix = "settings:"
	// Saved settings expire after a month without writes.
	ttl = 30 * 24 * time.Hour
)

var (
	ErrNotFound       = errors.New("settings not found")
	ErrInvalidSession = errors.New("invalid session id")
)

var sessionRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{8,64}$`)

// Saved is a session's swap settings plus the time they were written.
type Saved struct {
	Session   string        `json:"session"`
	Settings  swap.Settings `json:"settings"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Store keeps per-session slippage and deadline choices in Redis.
type Store struct {
	client redis.Cmdable
}

func NewStore(client redis.Cmdable) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &Store{client: client}, nil
}

func ValidateSession(session string) error {
	if !sessionRe.MatchString(session) {
		return ErrInvalidSession
	}
	return nil
}

// Put validates and stores settings for session, refreshing the expiry.
func (s *Store) Put(ctx context.Context, session string, st swap.Settings) (*Saved, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	saved := &Saved{Session: session, Settings: st, UpdatedAt: time.Now().UTC()}
	b, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.client.Set(ctx, settingsKey(session), b, ttl).Err(); err != nil {
		return nil, fmt.Errorf("put settings: %w", err)
	}
	return saved, nil
}

// Get returns the stored settings for session or ErrNotFound.
func (s *Store) Get(ctx context.Context, session string) (*Saved, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, settingsKey(session)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var out Saved
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &out, nil
}

// GetOrDefault returns the stored settings, falling back to the defaults when none exist.
func (s *Store) GetOrDefault(ctx context.Context, session string) (swap.Settings, error) {
	saved, err := s.Get(ctx, session)
	if errors.Is(err, ErrNotFound) {
		return swap.DefaultSettings(), nil
	}
	if err != nil {
		return swap.Settings{}, err
	}
	return saved.Settings, nil
}

func (s *Store) Delete(ctx context.Context, session string) error {
	if err := ValidateSession(session); err != nil {
		return err
	}
	if err := s.client.Del(ctx, settingsKey(session)).Err(); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

func settingsKey(session string) string {
	return valuePrefix + session
}
