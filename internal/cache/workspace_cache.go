package cache

import (
	"context"
	"encoding/json"
	"time"

	"schemahub-server/internal/models"
	"schemahub-server/internal/repositories"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "workspace:"

// cachedWorkspace carries the optimistic-lock version alongside the
// aggregate; the version is excluded from the aggregate's own JSON form.
type cachedWorkspace struct {
	Version   int64            `json:"version"`
	Workspace models.Workspace `json:"workspace"`
}

// CachedWorkspaceRepository is a read-through Redis cache in front of a
// workspace repository. Cache failures degrade to the underlying store and
// are logged, never surfaced; the cache can only make reads cheaper, not
// change results.
type CachedWorkspaceRepository struct {
	inner  repositories.WorkspaceRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedWorkspaceRepository wraps inner with a Redis cache.
func NewCachedWorkspaceRepository(inner repositories.WorkspaceRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedWorkspaceRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedWorkspaceRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedWorkspaceRepository) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	if cached := c.get(ctx, id); cached != nil {
		return cached, nil
	}

	workspace, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, workspace)
	return workspace, nil
}

func (c *CachedWorkspaceRepository) Insert(ctx context.Context, workspace *models.Workspace) error {
	if err := c.inner.Insert(ctx, workspace); err != nil {
		return err
	}
	c.set(ctx, workspace)
	return nil
}

func (c *CachedWorkspaceRepository) Update(ctx context.Context, workspace *models.Workspace) error {
	if err := c.inner.Update(ctx, workspace); err != nil {
		// The stored document moved under us; whatever is cached is stale.
		c.invalidate(ctx, workspace.ID)
		return err
	}
	c.set(ctx, workspace)
	return nil
}

func (c *CachedWorkspaceRepository) get(ctx context.Context, id string) *models.Workspace {
	data, err := c.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Failed to read workspace from cache", zap.String("id", id), zap.Error(err))
		}
		return nil
	}

	var entry cachedWorkspace
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.Warn("Failed to decode cached workspace", zap.String("id", id), zap.Error(err))
		c.invalidate(ctx, id)
		return nil
	}
	entry.Workspace.Version = entry.Version
	return &entry.Workspace
}

func (c *CachedWorkspaceRepository) set(ctx context.Context, workspace *models.Workspace) {
	data, err := json.Marshal(cachedWorkspace{Version: workspace.Version, Workspace: *workspace})
	if err != nil {
		c.logger.Warn("Failed to encode workspace for cache", zap.String("id", workspace.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+workspace.ID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to store workspace in cache", zap.String("id", workspace.ID), zap.Error(err))
	}
}

func (c *CachedWorkspaceRepository) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		c.logger.Warn("Failed to invalidate cached workspace", zap.String("id", id), zap.Error(err))
	}
}
