// Package redisstore keeps lucky-wheel discount awards in Redis, one
// JSON object per spinning session, expired by the server after 24
// hours.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pizzeria/internal/models"
)

// timeNow is a test seam.
var timeNow = time.Now

const awardKeyPrefix = "pizzeria:wheel:award:"

// AwardStore is the Redis-backed AwardStore.
type AwardStore struct {
	client *redis.Client
}

// New creates an award store on the given Redis address.
func New(addr string) *AwardStore {
	return &AwardStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewWithClient wraps an existing client, used by tests.
func NewWithClient(client *redis.Client) *AwardStore {
	return &AwardStore{client: client}
}

// Put stores the award under the session key with the 24 hour TTL.
func (s *AwardStore) Put(ctx context.Context, sessionID string, award models.DiscountAward) error {
	payload, err := json.Marshal(award)
	if err != nil {
		return fmt.Errorf("failed to marshal award: %w", err)
	}

	if err := s.client.Set(ctx, awardKey(sessionID), payload, models.AwardTTL).Err(); err != nil {
		return fmt.Errorf("failed to store award: %w", err)
	}
	return nil
}

// Get returns the live award for the session, or nil when none exists.
// The timestamp is still checked so a stale entry surviving a TTL
// misconfiguration is never redeemed.
func (s *AwardStore) Get(ctx context.Context, sessionID string) (*models.DiscountAward, error) {
	payload, err := s.client.Get(ctx, awardKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read award: %w", err)
	}

	var award models.DiscountAward
	if err := json.Unmarshal([]byte(payload), &award); err != nil {
		return nil, fmt.Errorf("failed to unmarshal award: %w", err)
	}
	if award.Expired(timeNow()) {
		return nil, nil
	}
	return &award, nil
}

// Delete removes the award once it has been redeemed.
func (s *AwardStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, awardKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete award: %w", err)
	}
	return nil
}

// Close releases the underlying client connections.
func (s *AwardStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection for health reporting.
func (s *AwardStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func awardKey(sessionID string) string {
	return awardKeyPrefix + sessionID
}
