package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/stockroom/backend/internal/infrastructure/config"
)

// TokenRevocationList remembers access tokens that were revoked before they
// expired. Entries only need to live until the token would have expired.
type TokenRevocationList interface {
	// Revoke records jti until expiresAt. Already expired tokens are ignored.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser rejects every token of userID issued at or before at, for ttl
	RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error
	// IsUserRevoked reports whether a token issued at issuedAt predates RevokeUser
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "stockroom:revoked:"

// RedisRevocationList implements TokenRevocationList on Redis keys with TTLs,
// so every instance of the service shares the list.
type RedisRevocationList struct {
	client    *redis.Client
	keyPrefix string
	clock     func() time.Time
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisRevocationList uses an existing client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client, keyPrefix: revocationKeyPrefix, clock: time.Now}
}

func (l *RedisRevocationList) jtiKey(jti string) string {
	return l.keyPrefix + "jti:" + jti
}

func (l *RedisRevocationList) userKey(userID string) string {
	return l.keyPrefix + "user:" + userID
}

func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.clock())
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, l.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

func (l *RedisRevocationList) RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	if err := l.client.Set(ctx, l.userKey(userID), at.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := l.client.Get(ctx, l.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse user revocation time: %w", err)
	}
	// iat has second precision
	return issuedAt.Unix() <= at, nil
}

// Close closes the Redis client
func (l *RedisRevocationList) Close() error {
	return l.client.Close()
}

var _ TokenRevocationList = (*RedisRevocationList)(nil)

// MemoryRevocationList keeps the list in process with go-cache. Revocations
// are lost on restart and not shared between instances.
type MemoryRevocationList struct {
	cache *gocache.Cache
	clock func() time.Time
}

// NewMemoryRevocationList creates an empty list, purging expired entries every minute
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		cache: gocache.New(gocache.NoExpiration, time.Minute),
		clock: time.Now,
	}
}

func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.clock())
	if ttl <= 0 {
		return nil
	}
	l.cache.Set("jti:"+jti, struct{}{}, ttl)
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := l.cache.Get("jti:" + jti)
	return ok, nil
}

func (l *MemoryRevocationList) RevokeUser(_ context.Context, userID string, at time.Time, ttl time.Duration) error {
	l.cache.Set("user:"+userID, at, ttl)
	return nil
}

func (l *MemoryRevocationList) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	v, ok := l.cache.Get("user:" + userID)
	if !ok {
		return false, nil
	}
	at := v.(time.Time)
	return issuedAt.Unix() <= at.Unix(), nil
}

var _ TokenRevocationList = (*MemoryRevocationList)(nil)

// NewRevocationList builds the store selected by cfg.Auth.RevocationStore
func NewRevocationList(ctx context.Context, cfg *config.Config) (TokenRevocationList, error) {
	switch cfg.Auth.RevocationStore {
	case "redis":
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisRevocationList(client), nil
	case "", "memory":
		return NewMemoryRevocationList(), nil
	default:
		return nil, fmt.Errorf("unknown revocation store %q", cfg.Auth.RevocationStore)
	}
}
