package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

const idempotencyKeyPrefix = "intervention:idem:case-create:"

// IdempotencyRecord is the stored outcome of the first successful request
// made under a key.
type IdempotencyRecord struct {
	Fingerprint string          `json:"fingerprint"`
	Result      json.RawMessage `json:"result"`
	StoredAt    time.Time       `json:"storedAt"`
}

type IdempotencyStore interface {
	// Get returns nil when the key is unknown or expired.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// PutIfAbsent stores rec unless the key is already taken and reports
	// whether it was stored.
	PutIfAbsent(ctx context.Context, key string, rec IdempotencyRecord) (bool, error)
}

type redisIdempotencyStore struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisIdempotencyStore(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) IdempotencyStore {
	return &redisIdempotencyStore{
		rdb: rdb,
		ttl: ttl,
		log: baseLog.With("store", "RedisIdempotencyStore"),
	}
}

func (s *redisIdempotencyStore) Get(ctx context.Context, key string) (*IdempotencyRecord, error) {
	raw, err := s.rdb.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency get: %w", err)
	}
	var rec IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.log.Warn("dropping unreadable idempotency record", "key", key, "error", err)
		return nil, nil
	}
	return &rec, nil
}

func (s *redisIdempotencyStore) PutIfAbsent(ctx context.Context, key string, rec IdempotencyRecord) (bool, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	ok, err := s.rdb.SetNX(ctx, idempotencyKeyPrefix+key, raw, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency put: %w", err)
	}
	return ok, nil
}

type memoryEntry struct {
	rec       IdempotencyRecord
	expiresAt time.Time
}

type memoryIdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryIdempotencyStore keeps records in process. Used when redis is
// not configured and in tests.
func NewMemoryIdempotencyStore(ttl time.Duration, now func() time.Time) IdempotencyStore {
	if now == nil {
		now = time.Now
	}
	return &memoryIdempotencyStore{ttl: ttl, now: now, entries: map[string]memoryEntry{}}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (*IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.expired(e) {
		delete(s.entries, key)
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

func (s *memoryIdempotencyStore) PutIfAbsent(_ context.Context, key string, rec IdempotencyRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && !s.expired(e) {
		return false, nil
	}
	var exp time.Time
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.entries[key] = memoryEntry{rec: rec, expiresAt: exp}
	return true, nil
}

func (s *memoryIdempotencyStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

// NormalizeIdempotencyKey trims the header value; keys longer than 200
// bytes are rejected.
func NormalizeIdempotencyKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if len(key) > 200 {
		return "", fmt.Errorf("idempotency key too long")
	}
	return key, nil
}
