package config

import (
	"strings"

	"github.com/spf13/viper"
)

// NewViper reads config.json from the working directory, with environment
// variables (RIDE_SERVICE_*) overriding file values. A missing file is fine;
// defaults are seeded in main.
func NewViper() *viper.Viper {
	config := viper.New()
	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")
	config.SetEnvPrefix("RIDE_SERVICE")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			panic(err)
		}
	}
	return config
}
