package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudosd/internal/structures"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, sizeMB int) *structures.Config {
	conf := &structures.Config{}
	conf.Cache.Enabled = enabled
	conf.Cache.Size = sizeMB
	conf.Cache.RuleTTL = 30 * time.Second
	return conf
}

func TestCacheProvider_SetGet(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	c.Set("rules:active", []byte(`[{"type":"*"}]`))

	val, ok := c.Get("rules:active")
	require.True(t, ok)
	assert.Equal(t, []byte(`[{"type":"*"}]`), val)
}

func TestCacheProvider_GetMissing(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestCacheProvider_DisabledReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(false, 1), &cacheTestLogger{})

	c.Set("key", []byte("value"))
	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCacheProvider_ZeroSizeReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 0), &cacheTestLogger{})

	c.Set("key", []byte("value"))
	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestUnsafeStringToBytes(t *testing.T) {
	assert.Nil(t, unsafeStringToBytes(""))
	assert.Equal(t, []byte("rules:active"), unsafeStringToBytes("rules:active"))
}
