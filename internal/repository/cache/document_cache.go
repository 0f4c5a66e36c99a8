// Package cache provides a Redis read-through cache in front of a
// DocumentRepository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docanalyzer/internal/config"
	"docanalyzer/internal/domain"
	"docanalyzer/internal/logger"
	"docanalyzer/internal/port"
)

const keyPrefix = "docanalyzer:document:"

// NewClient creates a Redis client from cfg.
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Pinger returns a readiness check for client.
func Pinger(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// documentCache caches single documents by ID. Lists always go to the
// underlying repository. Redis failures are logged and never fail a call.
type documentCache struct {
	next   port.DocumentRepository
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewDocumentRepo wraps next with a read-through cache.
func NewDocumentRepo(next port.DocumentRepository, client *redis.Client, ttl time.Duration, log *zap.Logger) port.DocumentRepository {
	return &documentCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    logger.OrNop(log).Named("cache"),
	}
}

func key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

func (c *documentCache) Create(ctx context.Context, doc *domain.Document) error {
	if err := c.next.Create(ctx, doc); err != nil {
		return err
	}
	c.store(ctx, doc)
	return nil
}

func (c *documentCache) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var doc domain.Document
		if jsonErr := json.Unmarshal(data, &doc); jsonErr == nil {
			return &doc, nil
		}
		c.log.Warn("documentCache.GetByID: dropping undecodable entry", zap.Int64("document_id", id))
		c.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("documentCache.GetByID: cache read failed", zap.Int64("document_id", id), zap.Error(err))
	}

	doc, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, doc)
	return doc, nil
}

func (c *documentCache) List(ctx context.Context) ([]domain.Document, error) {
	return c.next.List(ctx)
}

func (c *documentCache) Update(ctx context.Context, doc *domain.Document) error {
	c.evict(ctx, doc.ID)
	if err := c.next.Update(ctx, doc); err != nil {
		return err
	}
	c.store(ctx, doc)
	return nil
}

func (c *documentCache) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, id)
	return nil
}

func (c *documentCache) store(ctx context.Context, doc *domain.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		c.log.Warn("documentCache.store: encoding failed", zap.Int64("document_id", doc.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key(doc.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn("documentCache.store: cache write failed", zap.Int64("document_id", doc.ID), zap.Error(err))
	}
}

func (c *documentCache) evict(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.log.Warn("documentCache.evict: cache delete failed", zap.Int64("document_id", id), zap.Error(err))
	}
}
