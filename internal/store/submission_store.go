// Package store persists submission records in Redis: one JSON value per
// record plus a capped list of ids serving "most recent" queries.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"contact-intake-api/internal/domain"
)

const (
	submissionKeyPrefix = "contact:submission:"
	indexKey            = "contact:submissions:index"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("submission not found")

// SubmissionStore defines the record store operations of the intake pipeline
type SubmissionStore interface {
	Save(ctx context.Context, sub *domain.Submission) error
	Get(ctx context.Context, id string) (*domain.Submission, error)
	Exists(ctx context.Context, id string) (bool, error)
	// PrependIndex atomically pushes id to the front of the recency index and
	// trims it to the cap. Records are written before the index is updated,
	// so the index never references a missing record.
	PrependIndex(ctx context.Context, id string) error
	RecentIDs(ctx context.Context, limit int) ([]string, error)
	IndexLength(ctx context.Context) (int64, error)
}

// redisSubmissionStore is the Redis implementation of SubmissionStore
type redisSubmissionStore struct {
	client   *redis.Client
	indexCap int
}

// NewSubmissionStore creates a new Redis-backed submission store
func NewSubmissionStore(client *redis.Client, indexCap int) SubmissionStore {
	if indexCap <= 0 {
		indexCap = 1000
	}
	return &redisSubmissionStore{client: client, indexCap: indexCap}
}

func submissionKey(id string) string {
	return submissionKeyPrefix + id
}

// Save writes the record under its id. Records are immutable after creation;
// Save is only called once per id.
func (s *redisSubmissionStore) Save(ctx context.Context, sub *domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}
	if err := s.client.Set(ctx, submissionKey(sub.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

func (s *redisSubmissionStore) Get(ctx context.Context, id string) (*domain.Submission, error) {
	data, err := s.client.Get(ctx, submissionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	var sub domain.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission %s: %w", id, err)
	}
	return &sub, nil
}

func (s *redisSubmissionStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, submissionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check submission existence: %w", err)
	}
	return n > 0, nil
}

// PrependIndex uses LPUSH+LTRIM in one pipeline. Unlike a read-modify-write of
// the whole list, concurrent submissions cannot drop each other's ids.
func (s *redisSubmissionStore) PrependIndex(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, indexKey, id)
	pipe.LTrim(ctx, indexKey, 0, int64(s.indexCap-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update submission index: %w", err)
	}
	return nil
}

// RecentIDs returns up to limit ids, most recent first
func (s *redisSubmissionStore) RecentIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.client.LRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read submission index: %w", err)
	}
	return ids, nil
}

func (s *redisSubmissionStore) IndexLength(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read submission index length: %w", err)
	}
	return n, nil
}
