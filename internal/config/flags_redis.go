package config

import (
	"fmt"
	"pwmeter/internal/cli"
	"strings"
)

const (
	CacheBackend  = "cache-backend"
	RedisAddr     = "redis-addr"
	RedisUsername = "redis-username"
	RedisPassword = "redis-password"
	RedisDb       = "redis-db"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
	CacheBackendRedis  = "redis"
)

var CacheBackends = []string{
	CacheBackendMemory,
	CacheBackendNone,
	CacheBackendRedis,
}

func GetCacheFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         CacheBackend,
			DefaultValue: CacheBackendMemory,
			Usage:        fmt.Sprintf("defines where breach lookups are cached (one of [%s])", strings.Join(CacheBackends, ", ")),
			Type:         cli.FlagTypeString,
		},
		{
			Name:         RedisAddr,
			DefaultValue: "localhost:6379",
			Usage:        "defines the hostname (including port) of the redis server",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         RedisUsername,
			DefaultValue: "",
			Usage:        "defines the username used to login to redis",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         RedisPassword,
			DefaultValue: "",
			Usage:        "defines the password used to login to redis",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         RedisDb,
			DefaultValue: 0,
			Usage:        "defines the redis database index to use",
			Type:         cli.FlagTypeInteger,
		},
	}
}
