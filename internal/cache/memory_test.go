package cache

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	c := NewMemory()
	require.NoError(t, c.Set("range:ABCDE", "payload", time.Minute))

	value, err := c.Get("range:ABCDE")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)

	_, err = c.Get("range:FFFFF")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set("short", "a", time.Second))
	require.NoError(t, c.Set("forever", "b", 0))

	now = now.Add(2 * time.Second)
	_, err := c.Get("short")
	assert.ErrorIs(t, err, ErrNotFound)

	value, err := c.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, "b", value)
}

func TestMemoryScanAndDel(t *testing.T) {
	c := NewMemory()
	require.NoError(t, c.Set("range:00000", "x", 0))
	require.NoError(t, c.Set("range:11111", "y", 0))
	require.NoError(t, c.Set("other", "z", 0))

	keys, err := c.Scan("range:")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"range:00000", "range:11111"}, keys)

	require.NoError(t, c.Del("range:00000"))
	keys, err = c.Scan("range:")
	require.NoError(t, err)
	assert.Equal(t, []string{"range:11111"}, keys)
}
