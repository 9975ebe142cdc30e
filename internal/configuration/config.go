package configuration

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/pkg/errors"

	"serium/internal/logger"
)

type Config struct {
	ServerAddress         string
	DatabaseURI           string
	RedisAddress          string
	LogLevel              logger.Level
	LogToFile             bool
	FCMKey                string
	LowStockCheckInterval time.Duration
	AuthSecretKey         jwk.Key
}

type tomlConfig struct {
	ServerAddress         string `toml:"server_address"`
	DatabaseURI           string `toml:"database_uri"`
	RedisAddress          string `toml:"redis_address"`
	LogLevel              string `toml:"log_level"`
	LogToFile             bool   `toml:"log_to_file"`
	FCMKey                string `toml:"fcm_key"`
	LowStockCheckInterval string `toml:"low_stock_check_interval"`
	AuthSecretKey         string `toml:"auth_secret_key"`
}

func GetConfig(path string) (*Config, error) {
	var tc tomlConfig
	_, err := toml.DecodeFile(path, &tc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode toml file with path: %s", path)
	}

	if tc.ServerAddress == "" {
		tc.ServerAddress = "localhost:8888"
	}

	if tc.DatabaseURI == "" {
		tc.DatabaseURI = "mongodb://localhost:27017"
	}

	if tc.LogLevel == "" {
		tc.LogLevel = "INFO"
	}
	logLevel, err := logger.ParseLevel(tc.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse log_level: %s", tc.LogLevel)
	}

	if tc.LowStockCheckInterval == "" {
		tc.LowStockCheckInterval = "1h"
	}
	lowStockCheckInterval, err := time.ParseDuration(tc.LowStockCheckInterval)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse low_stock_check_interval: %s", tc.LowStockCheckInterval)
	}
	if lowStockCheckInterval < time.Minute {
		return nil, errors.Errorf("low_stock_check_interval too short (%v), minimum interval: 1m", lowStockCheckInterval)
	}

	if tc.AuthSecretKey == "" {
		return nil, errors.New("auth_secret_key is not set")
	}

	authSecretKey, err := jwk.FromRaw([]byte(tc.AuthSecretKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create key from auth_secret_key")
	}

	return &Config{
		ServerAddress:         tc.ServerAddress,
		DatabaseURI:           tc.DatabaseURI,
		RedisAddress:          tc.RedisAddress,
		LogLevel:              logLevel,
		LogToFile:             tc.LogToFile,
		FCMKey:                tc.FCMKey,
		LowStockCheckInterval: lowStockCheckInterval,
		AuthSecretKey:         authSecretKey,
	}, nil
}
