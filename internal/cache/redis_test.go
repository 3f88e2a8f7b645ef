package cache

import (
	"os"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// set PWMETER_TEST_REDIS_ADDR (eg. localhost:6379) to run these against a live server
const testRedisAddrEnv = "PWMETER_TEST_REDIS_ADDR"

func getTestRedis(t *testing.T) *Redis {
	addr := os.Getenv(testRedisAddrEnv)
	if addr == "" {
		t.Skipf("%s not set", testRedisAddrEnv)
	}
	r, err := NewRedis(NewRedisOpts{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedisSetGet(t *testing.T) {
	r := getTestRedis(t)
	prefix := "pwmeter:test:" + uuid.NewString() + ":"

	require.NoError(t, r.Set(prefix+"ABCDE", "payload", time.Minute))
	t.Cleanup(func() { _ = r.Del(prefix + "ABCDE") })

	value, err := r.Get(prefix + "ABCDE")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)

	_, err = r.Get(prefix + "FFFFF")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisScanAndDel(t *testing.T) {
	r := getTestRedis(t)
	prefix := "pwmeter:test:" + uuid.NewString() + ":"

	require.NoError(t, r.Set(prefix+"00000", "x", time.Minute))
	require.NoError(t, r.Set(prefix+"11111", "y", time.Minute))
	t.Cleanup(func() { _ = r.Del(prefix + "11111") })

	keys, err := r.Scan(prefix)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{prefix + "00000", prefix + "11111"}, keys)

	require.NoError(t, r.Del(prefix+"00000"))
	keys, err = r.Scan(prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + "11111"}, keys)
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(NewRedisOpts{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
