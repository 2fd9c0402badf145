package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort   string
	Storage    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	AMQPURL            string
	AMQPExchange       string
	AMQPConfirmTimeout time.Duration

	AutoAssignSchedule  string
	PushGlobalBroadcast bool

	LogLevel string
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	broadcast, err := parseBool("PUSH_GLOBAL_BROADCAST", getEnv("PUSH_GLOBAL_BROADCAST", "false"))
	if err != nil {
		return Config{}, err
	}

	confirmTimeout, err := time.ParseDuration(getEnv("AMQP_CONFIRM_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("AMQP_CONFIRM_TIMEOUT: %w", err)
	}

	cfg := Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		Storage:             strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBSslMode:           getEnv("DB_SSLMODE", "disable"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AMQPURL:             os.Getenv("AMQP_URL"),
		AMQPExchange:        getEnv("AMQP_EXCHANGE", "orders"),
		AMQPConfirmTimeout:  confirmTimeout,
		AutoAssignSchedule:  os.Getenv("AUTO_ASSIGN_SCHEDULE"),
		PushGlobalBroadcast: broadcast,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errList []error
	if c.HTTPPort == "" {
		errList = append(errList, errors.New("HTTP_PORT is required"))
	}
	if c.JWTSecret == "" {
		errList = append(errList, errors.New("JWT_SECRET is required"))
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DBUser == "" || c.DBName == "" {
			errList = append(errList, errors.New("DB_USER and DB_NAME are required for postgres storage"))
		}
	default:
		errList = append(errList, fmt.Errorf("STORAGE %q is not one of postgres, memory", c.Storage))
	}
	if c.AMQPConfirmTimeout <= 0 {
		errList = append(errList, errors.New("AMQP_CONFIRM_TIMEOUT must be positive"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
