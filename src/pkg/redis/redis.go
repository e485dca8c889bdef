package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var redisClient redis.UniversalClient

// InitConnection dials the single-node Redis used as the profile cache.
func InitConnection(v *viper.Viper) error {
	var tlsConf *tls.Config
	if v.GetBool("redis.enable_tls") {
		tlsConf = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", v.GetString("redis.host"), v.GetString("redis.port")),
		Password:     v.GetString("redis.password"),
		DB:           v.GetInt("redis.db"),
		TLSConfig:    tlsConf,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MaxRetries:   2,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("cannot connect to redis: %w", err)
	}
	return nil
}

// GetClient returns the shared client.
func GetClient() redis.UniversalClient {
	return redisClient
}
