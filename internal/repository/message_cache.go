package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"tush00nka/bbbab_chat/internal/model"
)

// MessageCache keeps full conversation timelines. Entries are dropped on every
// new message and rebuilt from the database on the next read.
//
// Each conversation carries a generation counter bumped by Invalidate. A
// reader takes the generation before loading from the database and hands it
// to Set; a refill whose generation is no longer current is discarded.
type MessageCache interface {
	Get(ctx context.Context, conversationID uint) ([]model.Message, bool, error)
	Generation(ctx context.Context, conversationID uint) (int64, error)
	Set(ctx context.Context, conversationID uint, generation int64, messages []model.Message) error
	Invalidate(ctx context.Context, conversationID uint) error
}

var errStaleGeneration = errors.New("cache generation moved")

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

type messageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMessageCache(rdb *redis.Client, ttl time.Duration) MessageCache {
	return &messageCache{rdb: rdb, ttl: ttl}
}

func (c *messageCache) key(conversationID uint) string {
	return fmt.Sprintf("conversation:%d:messages", conversationID)
}

func (c *messageCache) generationKey(conversationID uint) string {
	return fmt.Sprintf("conversation:%d:generation", conversationID)
}

func (c *messageCache) Generation(ctx context.Context, conversationID uint) (int64, error) {
	generation, err := c.rdb.Get(ctx, c.generationKey(conversationID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return generation, nil
}

func (c *messageCache) Get(ctx context.Context, conversationID uint) ([]model.Message, bool, error) {
	values, err := c.rdb.LRange(ctx, c.key(conversationID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get messages from redis: %w", err)
	}

	if len(values) == 0 {
		return nil, false, nil
	}

	messages := make([]model.Message, 0, len(values))
	for _, v := range values {
		var msg model.Message
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			// A corrupt entry poisons the whole timeline; treat it as a miss.
			return nil, false, fmt.Errorf("failed to decode cached message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, true, nil
}

func (c *messageCache) Set(ctx context.Context, conversationID uint, generation int64, messages []model.Message) error {
	key := c.key(conversationID)
	generationKey := c.generationKey(conversationID)

	values := make([]any, 0, len(messages))
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		values = append(values, data)
	}

	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			if len(values) > 0 {
				pipe.RPush(ctx, key, values...)
				pipe.Expire(ctx, key, c.ttl)
			}
			return nil
		})
		return err
	}, generationKey)

	// An Invalidate got in first: the timeline we hold may miss its message.
	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save messages to redis: %w", err)
	}

	return nil
}

func (c *messageCache) Invalidate(ctx context.Context, conversationID uint) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey(conversationID))
		pipe.Del(ctx, c.key(conversationID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate messages in redis: %w", err)
	}
	return nil
}

// NopMessageCache is used when no redis is configured.
type NopMessageCache struct{}

func (NopMessageCache) Get(context.Context, uint) ([]model.Message, bool, error) {
	return nil, false, nil
}

func (NopMessageCache) Generation(context.Context, uint) (int64, error) { return 0, nil }

func (NopMessageCache) Set(context.Context, uint, int64, []model.Message) error { return nil }

func (NopMessageCache) Invalidate(context.Context, uint) error { return nil }
