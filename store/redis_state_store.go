package store

import (
	"fmt"
	"time"
)

// RedisStateStore holds the short-lived conversational state (which payment
// a user is submitting proof for) and the per-day reminder markers that keep
// a re-run of the reminder sweep from notifying the same user twice.
type RedisStateStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisStateStore(redisClient *RedisClient, ttlHours int) *RedisStateStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisStateStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisStateStore) SetAwaitingProof(userID int64, paymentID string) error {
	key := s.client.generateKey("awaiting_proof", fmt.Sprintf("%d", userID))
	return s.client.Set(key, paymentID, s.ttl)
}

// GetAwaitingProof returns the payment the user is expected to attach proof
// to, or "" when no submission is in progress.
func (s *RedisStateStore) GetAwaitingProof(userID int64) (string, error) {
	key := s.client.generateKey("awaiting_proof", fmt.Sprintf("%d", userID))
	var paymentID string
	if err := s.client.Get(key, &paymentID); err != nil {
		return "", nil
	}
	return paymentID, nil
}

func (s *RedisStateStore) ClearAwaitingProof(userID int64) error {
	key := s.client.generateKey("awaiting_proof", fmt.Sprintf("%d", userID))
	return s.client.Del(key)
}

// MarkReminded records that a reminder went out for the subscription on the
// given day and reports whether this call was the first to do so.
func (s *RedisStateStore) MarkReminded(subscriptionID string, day string) (bool, error) {
	key := s.client.generateKey("reminded", subscriptionID, day)
	return s.client.SetNX(key, 1, 48*time.Hour)
}
