package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	brokerTokenENV    = "BROKER_ACCESS_TOKEN"
	telegramTokenENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	DB      string `yaml:"db_dsn"`
	Storage string `yaml:"storage"` // postgres | memory

	Broker struct {
		BaseURL     string `yaml:"base_url"`
		AccessToken string `yaml:"access_token"`
		// Таймауты только из env: yaml.v2 не умеет time.Duration.
		Timeout     time.Duration `yaml:"-"`
		HistoryDays int           `yaml:"history_days"` // глубина серии свечей
	} `yaml:"broker"`

	Scheduler struct {
		Interval    time.Duration `yaml:"-"`
		EvalTimeout time.Duration `yaml:"-"`
		Workers     int           `yaml:"workers"`
	} `yaml:"scheduler"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`
}

func NewConfig() (*Config, error) {
	config := Config{
		Storage: getenvDefault("STORAGE", "postgres"),
	}
	config.Broker.BaseURL = getenvDefault("BROKER_BASE_URL", "https://api.upstox.com/v2")
	config.Broker.Timeout = durationFromEnv("BROKER_TIMEOUT", "10s")
	config.Broker.HistoryDays = intFromEnv("BROKER_HISTORY_DAYS", 30)
	config.Scheduler.Interval = durationFromEnv("POLL_INTERVAL", "30s")
	config.Scheduler.EvalTimeout = durationFromEnv("EVAL_TIMEOUT", "20s")
	config.Scheduler.Workers = intFromEnv("EVAL_WORKERS", 4)

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err == nil {
		defer func() {
			_ = file.Close()
		}()
		if err = yaml.NewDecoder(file).Decode(&config); err != nil {
			return nil, errors.Wrap(err, "decode config file")
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "open config file")
	}

	if token := os.Getenv(brokerTokenENV); token != "" {
		config.Broker.AccessToken = token
	}
	if token := os.Getenv(telegramTokenENV); token != "" {
		config.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
