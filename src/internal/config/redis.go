package config

import (
	redisPkg "ride-service/src/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func NewRedis(viper *viper.Viper) redis.UniversalClient {
	if err := redisPkg.InitConnection(viper); err != nil {
		panic(err)
	}
	return redisPkg.GetClient()
}
