package config

import (
	"sync"

	"github.com/spf13/viper"
)

var (
	cfg  *Config
	once sync.Once
)

type Config struct {
	DbName        string `mapstructure:"POSTGRES_DB"`
	DbHost        string `mapstructure:"POSTGRES_HOST"`
	DbPort        string `mapstructure:"POSTGRES_PORT"`
	DbUser        string `mapstructure:"POSTGRES_USER"`
	DbPas         string `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	KafkaBrokers  string `mapstructure:"KAFKA_BROKERS"`
	OrderTopic    string `mapstructure:"KAFKA_ORDER_TOPIC"`
	CdekAPIURL    string `mapstructure:"CDEK_API_URL"`
}

// GetConfig loads the .env file once; environment variables override it.
func GetConfig() (*Config, error) {
	var err error
	once.Do(func() {
		cfg, err = loadConfig()
	})
	if err != nil {
		cfg = nil
	}
	return cfg, err
}

func loadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_ORDER_TOPIC", "storefront.orders")

	// a missing .env is fine when everything comes from the environment
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return nil, err
	}
	return c, nil
}
