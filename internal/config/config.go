package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

type Config struct {
	LogLevel  string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string  `yaml:"log-format" env:"LOG_FORMAT" env-default:"text"`
	LogFile   string  `yaml:"log-file" env:"LOG_FILE"`
	Bot       Bot     `yaml:"bot"`
	Storage   Storage `yaml:"storage"`
	Redis     Redis   `yaml:"redis"`
}

type Bot struct {
	RetryBudget int `yaml:"retry-budget" env:"BOT_RETRY_BUDGET" env-default:"64"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
}

type Redis struct {
	Host      string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port      string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	KeyPrefix string `yaml:"key-prefix" env:"REDIS_KEY_PREFIX" env-default:"tictactoe"`
}

// MustLoad - load configuration from the yml file at path, or from the
// environment alone when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
