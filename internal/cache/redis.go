package cache

import (
	"errors"
	"fmt"
	"pwmeter/internal/common"
	"time"

	"github.com/go-redis/redis/v7"
)

const (
	DefaultRedisNetworkTimeout     = 5 * time.Second
	DefaultRedisNetworkIdleTimeout = 30 * time.Second
)

// Redis is a Cache backed by a redis server
type Redis struct {
	Client      *redis.Client
	ServiceLogs chan<- common.ServiceLog
}

func (r *Redis) Set(key string, value string, ttl time.Duration) error {
	status := r.Client.Set(key, value, ttl)
	if status.Err() != nil {
		return fmt.Errorf("failed to set key[%s]: %w", key, status.Err())
	}
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "set key[%s] with ttl[%v]", key, ttl)
	return nil
}

func (r *Redis) Get(key string) (string, error) {
	response := r.Client.Get(key)
	if errors.Is(response.Err(), redis.Nil) {
		return "", ErrNotFound
	} else if response.Err() != nil {
		return "", fmt.Errorf("failed to get key[%s]: %w", key, response.Err())
	}
	value := response.Val()
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "get key[%s] returned %v bytes", key, len(value))
	return value, nil
}

func (r *Redis) Scan(pattern string) ([]string, error) {
	response := r.Client.Keys(pattern + "*")
	if response.Err() != nil {
		return nil, fmt.Errorf("failed to list keys[%s]: %w", pattern, response.Err())
	}
	keys := response.Val()
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "found %v keys[%s]", len(keys), pattern)
	return keys, nil
}

func (r *Redis) Del(key string) error {
	response := r.Client.Unlink(key)
	if response.Err() != nil {
		return fmt.Errorf("failed to delete key[%s]: %w", key, response.Err())
	}
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "delete key[%s] removed %v keys", key, response.Val())
	return nil
}

// Close releases the underlying connection pool
func (r *Redis) Close() error {
	return r.Client.Close()
}

type NewRedisOpts struct {
	Addr     string
	Username string
	Password string
	DB       int

	ServiceLogs chan<- common.ServiceLog
}

// NewRedis connects to the redis server at `opts.Addr` and verifies the
// connection with a PING before returning
func NewRedis(opts NewRedisOpts) (*Redis, error) {
	instance := &Redis{
		ServiceLogs: opts.ServiceLogs,
	}
	if instance.ServiceLogs == nil {
		instance.ServiceLogs = common.GetNoopServiceLog()
	}

	redisOptions := &redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  DefaultRedisNetworkTimeout,
		ReadTimeout:  DefaultRedisNetworkTimeout,
		WriteTimeout: DefaultRedisNetworkTimeout,
		IdleTimeout:  DefaultRedisNetworkIdleTimeout,
		OnConnect: func(c *redis.Conn) error {
			instance.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "connection to redis[%s] created", opts.Addr)
			return nil
		},
	}
	instance.Client = redis.NewClient(redisOptions)
	if err := instance.Client.Ping().Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at addr[%s]: %w", opts.Addr, err)
	}
	return instance, nil
}
