package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"schemahub-server/internal/models"
	"schemahub-server/internal/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingStore struct {
	workspace *models.Workspace
	finds     int
}

func (s *countingStore) FindByID(_ context.Context, id string) (*models.Workspace, error) {
	s.finds++
	if s.workspace == nil || s.workspace.ID != id {
		return nil, repositories.ErrWorkspaceNotFound
	}
	cp := *s.workspace
	return &cp, nil
}

func (s *countingStore) Insert(_ context.Context, ws *models.Workspace) error {
	cp := *ws
	s.workspace = &cp
	return nil
}

func (s *countingStore) Update(_ context.Context, ws *models.Workspace) error {
	if s.workspace == nil || s.workspace.Version != ws.Version {
		return repositories.ErrVersionConflict
	}
	ws.Version++
	cp := *ws
	s.workspace = &cp
	return nil
}

// unreachableRedis returns a client whose commands always fail, which is the
// degraded mode the cache must survive.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCacheEnvelopePreservesVersion(t *testing.T) {
	ws := models.NewWorkspace("W1", "Design Hub", "u-alice", "alice")
	ws.Version = 7

	data, err := json.Marshal(cachedWorkspace{Version: ws.Version, Workspace: *ws})
	require.NoError(t, err)

	// The aggregate's own JSON form hides the version, so the envelope is
	// the only thing standing between a cache hit and a lost lock.
	var entry cachedWorkspace
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, int64(0), entry.Workspace.Version)

	entry.Workspace.Version = entry.Version
	assert.Equal(t, int64(7), entry.Workspace.Version)
	assert.Equal(t, "W1", entry.Workspace.ID)
	assert.Len(t, entry.Workspace.Members, 1)
}

func TestCacheDegradesWhenRedisUnavailable(t *testing.T) {
	store := &countingStore{}
	repo := NewCachedWorkspaceRepository(store, unreachableRedis(), time.Minute, zap.NewNop())

	ws := models.NewWorkspace("W1", "Design Hub", "u-alice", "alice")
	require.NoError(t, repo.Insert(context.Background(), ws))

	got, err := repo.FindByID(context.Background(), "W1")
	require.NoError(t, err)
	assert.Equal(t, "W1", got.ID)
	assert.Equal(t, 1, store.finds)

	require.NoError(t, repo.Update(context.Background(), got))

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrWorkspaceNotFound)
}
