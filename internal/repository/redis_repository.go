package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"matchos/internal/models"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserCache keeps raw user documents keyed by id. Cached copies never carry
// the password hash.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{
		client: client,
		ttl:    ttl,
	}
}

func userKey(id string) string {
	return "user:" + id
}

func (c *UserCache) Get(ctx context.Context, id string) (*models.User, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("error get user in cache: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("error decoding cached user: %w", err)
	}
	return &user, nil
}

func (c *UserCache) Set(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding user for cache: %w", err)
	}
	if err := c.client.Set(ctx, userKey(user.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("error saving user to cache: %w", err)
	}
	return nil
}

func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, userKey(id)).Err(); err != nil {
		return fmt.Errorf("error invalidating cached user: %w", err)
	}
	return nil
}
