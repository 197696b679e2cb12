package session

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/safetystock-sim/internal/config"
	"github.com/andresuchdata/safetystock-sim/internal/domain"
)

const defaultSessionTTL = time.Hour

// Store keeps the transient state of each UI root between requests.
// Entries expire after the configured TTL; nothing is kept beyond that.
type Store interface {
	Get(ctx context.Context, id string) (*domain.SessionState, error)
	Save(ctx context.Context, state *domain.SessionState) error
	Delete(ctx context.Context, id string) error
	// Sweep drops expired sessions and returns how many remain.
	Sweep(ctx context.Context) (int, error)
}

// NewStore builds the store selected by cfg.Store.
func NewStore(cfg config.SessionConfig, cacheCfg config.CacheConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(ttl), nil
	case "redis":
		client, err := newRedisClient(cacheCfg)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
