package mcpserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specdex/specdex/index"
)

func schemaResult(name string) *index.SchemaResult {
	return &index.SchemaResult{
		Name:   name,
		Ref:    "#/components/schemas/" + name,
		Schema: map[string]any{"type": "object"},
	}
}

func TestSchemaCache_PutGet(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}

	assert.Nil(t, c.get("Pet"), "miss before put")

	c.put("Pet", schemaResult("Pet"))
	got := c.get("Pet")
	require.NotNil(t, got)
	assert.Equal(t, "Pet", got.Name)
	assert.Equal(t, 1, c.size())
}

func TestSchemaCache_UpdateExisting(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}

	c.put("Pet", schemaResult("Pet"))
	updated := schemaResult("Pet")
	updated.Schema = map[string]any{"type": "string"}
	c.put("Pet", updated)

	assert.Equal(t, 1, c.size())
	assert.Equal(t, map[string]any{"type": "string"}, c.get("Pet").Schema)
}

func TestSchemaCache_EvictsOldestAtCapacity(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 2}

	c.put("A", schemaResult("A"))
	// Make A strictly older than B.
	c.mu.Lock()
	c.entries["A"].insertAt = time.Now().Add(-time.Hour)
	c.mu.Unlock()
	c.put("B", schemaResult("B"))

	c.put("C", schemaResult("C"))

	assert.Equal(t, 2, c.size())
	assert.Nil(t, c.get("A"), "oldest entry evicted")
	assert.NotNil(t, c.get("B"))
	assert.NotNil(t, c.get("C"))
}

func TestSchemaCache_ExpiredEntryRemovedOnGet(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}

	c.put("Pet", schemaResult("Pet"))
	c.mu.Lock()
	c.entries["Pet"].expiresAt = time.Now().Add(-time.Second)
	c.mu.Unlock()

	assert.Nil(t, c.get("Pet"))
	assert.Equal(t, 0, c.size())
}

func TestSchemaCache_Sweep(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}

	c.put("Fresh", schemaResult("Fresh"))
	c.put("Stale", schemaResult("Stale"))
	c.mu.Lock()
	c.entries["Stale"].expiresAt = time.Now().Add(-time.Second)
	c.mu.Unlock()

	c.sweep()

	assert.Equal(t, 1, c.size())
	assert.NotNil(t, c.get("Fresh"))
	assert.Nil(t, c.get("Stale"))
}

func TestSchemaCache_Reset(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}

	c.put("Pet", schemaResult("Pet"))
	c.reset()
	assert.Equal(t, 0, c.size())
}

func TestSchemaCache_SweeperStartsOnce(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.startSweeper(ctx, time.Hour)
	assert.True(t, c.sweeperStarted.Load())

	// Second call is a no-op.
	c.startSweeper(ctx, time.Hour)
	assert.True(t, c.sweeperStarted.Load())
}

func TestSchemaCache_SweeperIgnoresNonPositiveInterval(t *testing.T) {
	c := &schemaCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}

	c.startSweeper(context.Background(), 0)
	assert.False(t, c.sweeperStarted.Load())
}
