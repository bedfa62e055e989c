package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"quizbank/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

// NewRedisSessionCache stores sessions as JSON under session:<id> with a TTL
// that is refreshed on every write
func NewRedisSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &redisSessionCache{
		client: client,
		ttl:    ttl,
		now:    time.Now,
		newID:  newSessionID,
	}
}

func (c *redisSessionCache) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (c *redisSessionCache) ResolveOrCreate(ctx context.Context, candidateID string) (string, error) {
	if candidateID != "" {
		ok, err := c.client.Expire(ctx, c.key(candidateID), c.ttl).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return candidateID, nil
		}
	}

	now := c.now()
	session := &model.Session{ID: c.newID(), Questions: []model.Question{}, CreatedAt: now, UpdatedAt: now}
	data, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	created, err := c.client.SetNX(ctx, c.key(session.ID), data, c.ttl).Result()
	if err != nil {
		return "", err
	}
	if !created {
		return "", fmt.Errorf("session id collision on %s", session.ID)
	}
	return session.ID, nil
}

func (c *redisSessionCache) AttachQuestions(ctx context.Context, id string, questions []model.Question) error {
	session, err := c.Get(ctx, id)
	if err == ErrSessionNotFound {
		session = &model.Session{ID: id, CreatedAt: c.now()}
	} else if err != nil {
		return err
	}

	session.Questions = questions
	session.UpdatedAt = c.now()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(id), data, c.ttl).Err()
}

func (c *redisSessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}
