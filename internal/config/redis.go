package config

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	URL          string        `koanf:"url"`
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	PoolSize     int           `koanf:"pool_size"`
}

type redisRequired struct {
	Endpoint string `validate:"required"`
}

func (c RedisConfig) required() redisRequired {
	endpoint := c.URL
	if endpoint == "" {
		endpoint = c.Addr
	}
	return redisRequired{Endpoint: endpoint}
}

// RedisOptions builds go-redis options. URL wins over Addr; explicit
// timeouts and pool size override whatever the URL carries.
func (c *RedisConfig) RedisOptions() (*redis.Options, error) {
	var opts *redis.Options

	if c.URL != "" {
		parsed, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     c.Addr,
			Password: c.Password,
			DB:       c.DB,
		}
	}

	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	if c.ReadTimeout > 0 {
		opts.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		opts.WriteTimeout = c.WriteTimeout
	}
	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}

	return opts, nil
}
