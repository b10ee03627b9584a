// Package redis stores character drafts in Redis with a sliding expiry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/elysium/internal/config"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

const (
	draftKeyPrefix = "draft:"
	ownerKeyPrefix = "draft:owner:"
)

var (
	// ErrDraftNotFound is returned when a draft is missing or has expired.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrInvalidDraft is returned when a draft lacks an owner.
	ErrInvalidDraft = errors.New("invalid draft")
)

// NewClient creates a go-redis client from cfg and verifies connectivity.
//
// Postcondition: returns a client that answered PING, or an error.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// DraftStore keeps one live draft per owner. Every write refreshes the TTL.
type DraftStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewDraftStore returns a DraftStore that expires drafts ttl after their last write.
//
// Precondition: ttl > 0.
func NewDraftStore(client goredis.UniversalClient, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl, now: time.Now}
}

func draftKey(id string) string     { return draftKeyPrefix + id }
func ownerKey(ownerID int64) string { return ownerKeyPrefix + strconv.FormatInt(ownerID, 10) }

// Create stores d under a fresh id, replacing any draft the owner already has.
//
// Precondition: d.OwnerID > 0.
// Postcondition: d.ID, d.CreatedAt, and d.UpdatedAt are set.
func (s *DraftStore) Create(ctx context.Context, d *creation.Draft) error {
	if d == nil || d.OwnerID <= 0 {
		return fmt.Errorf("%w: owner is required", ErrInvalidDraft)
	}
	previous, err := s.client.Get(ctx, ownerKey(d.OwnerID)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("checking existing draft: %w", err)
	}

	d.ID = uuid.NewString()
	d.CreatedAt = s.now().UTC()
	d.UpdatedAt = d.CreatedAt
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshalling draft: %w", err)
	}

	pipe := s.client.TxPipeline()
	if previous != "" {
		pipe.Del(ctx, draftKey(previous))
	}
	pipe.Set(ctx, draftKey(d.ID), data, s.ttl)
	pipe.Set(ctx, ownerKey(d.OwnerID), d.ID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("creating draft: %w", err)
	}
	return nil
}

// Get returns the draft with id or ErrDraftNotFound.
func (s *DraftStore) Get(ctx context.Context, id string) (*creation.Draft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("getting draft: %w", err)
	}
	var d creation.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshalling draft: %w", err)
	}
	return &d, nil
}

// GetByOwner returns the owner's live draft or ErrDraftNotFound. A dangling
// owner mapping is removed.
func (s *DraftStore) GetByOwner(ctx context.Context, ownerID int64) (*creation.Draft, error) {
	id, err := s.client.Get(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("getting owner draft: %w", err)
	}
	d, err := s.Get(ctx, id)
	if errors.Is(err, ErrDraftNotFound) {
		s.client.Del(ctx, ownerKey(ownerID))
	}
	return d, err
}

// Save overwrites an existing draft and refreshes its expiry.
//
// Postcondition: d.UpdatedAt is set; returns ErrDraftNotFound if the draft expired.
func (s *DraftStore) Save(ctx context.Context, d *creation.Draft) error {
	d.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshalling draft: %w", err)
	}
	ok, err := s.client.SetXX(ctx, draftKey(d.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	if !ok {
		return ErrDraftNotFound
	}
	s.client.Expire(ctx, ownerKey(d.OwnerID), s.ttl)
	return nil
}

// Delete removes the draft and its owner mapping. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	d, err := s.Get(ctx, id)
	if errors.Is(err, ErrDraftNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, draftKey(id))
	if current, err := s.client.Get(ctx, ownerKey(d.OwnerID)).Result(); err == nil && current == id {
		pipe.Del(ctx, ownerKey(d.OwnerID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}
