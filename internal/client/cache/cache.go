// Package cache provides a Redis-backed read-through cache for client views.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"bimadesk/internal/client/service"
	id "bimadesk/pkg/domain"
)

const defaultTTL = 5 * time.Minute

// ViewCache stores serialized views keyed by client ID. Failures degrade to
// cache misses; the store stays the source of truth.
type ViewCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(rdb *redis.Client, logger *slog.Logger) *ViewCache {
	return &ViewCache{rdb: rdb, ttl: defaultTTL, logger: logger}
}

func (c *ViewCache) Get(ctx context.Context, clientID id.ClientID) (*service.View, bool) {
	raw, err := c.rdb.Get(ctx, key(clientID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("view cache read failed", "clientId", clientID, "error", err)
		}
		return nil, false
	}
	var view service.View
	if err := json.Unmarshal(raw, &view); err != nil {
		c.logger.Warn("view cache entry corrupt, dropping", "clientId", clientID, "error", err)
		c.Invalidate(ctx, clientID)
		return nil, false
	}
	return &view, true
}

func (c *ViewCache) Set(ctx context.Context, view *service.View) {
	raw, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("view cache marshal failed", "clientId", view.ID, "error", err)
		return
	}
	clientID, err := id.ParseClientID(view.ID)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(clientID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("view cache write failed", "clientId", view.ID, "error", err)
	}
}

func (c *ViewCache) Invalidate(ctx context.Context, clientID id.ClientID) {
	if err := c.rdb.Del(ctx, key(clientID)).Err(); err != nil {
		c.logger.Warn("view cache invalidation failed", "clientId", clientID, "error", err)
	}
}

func key(clientID id.ClientID) string {
	return "client:view:" + clientID.String()
}
