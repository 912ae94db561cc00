package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// maxVisibleClients is the number of client records the admin frame can carry.
const maxVisibleClients = 10

type Config struct {
	ServiceName string
	LogLevel    string

	TCPAddr         string
	AdminSocketPath string

	QueueCapacity    int
	MaxClients       int
	SummarySentences int

	ConnRateLimitRPS   float64
	ConnRateLimitBurst int

	MetricsAddr string

	PostgresDSN string

	NATSURL     string
	NATSSubject string

	LexiconPath string
}

// Load reads the environment, after an optional .env file in the working
// directory.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServiceName: mustEnv("SERVICE_NAME", "nlp-server"),
		LogLevel:    mustEnv("LOG_LEVEL", "info"),

		TCPAddr:         mustEnv("TCP_ADDR", ":12345"),
		AdminSocketPath: mustEnv("ADMIN_SOCKET_PATH", "/tmp/nlp_admin_socket"),

		QueueCapacity:    mustEnvInt("QUEUE_CAPACITY", 100),
		MaxClients:       mustEnvInt("MAX_CLIENTS", maxVisibleClients),
		SummarySentences: mustEnvInt("SUMMARY_SENTENCES", 3),

		ConnRateLimitRPS:   mustEnvFloat("CONN_RATE_LIMIT_RPS", 0),
		ConnRateLimitBurst: mustEnvInt("CONN_RATE_LIMIT_BURST", 1),

		MetricsAddr: mustEnv("METRICS_ADDR", ":9090"),

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "nlp.requests.processed"),

		LexiconPath: mustEnv("LEXICON_PATH", ""),
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.TCPAddr == "" {
		errs = append(errs, errors.New("TCP_ADDR must not be empty"))
	}
	if c.AdminSocketPath == "" {
		errs = append(errs, errors.New("ADMIN_SOCKET_PATH must not be empty"))
	}
	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("QUEUE_CAPACITY must be positive, got %d", c.QueueCapacity))
	}
	if c.MaxClients <= 0 || c.MaxClients > maxVisibleClients {
		errs = append(errs, fmt.Errorf("MAX_CLIENTS must be in 1..%d, got %d", maxVisibleClients, c.MaxClients))
	}
	if c.ConnRateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("CONN_RATE_LIMIT_RPS must not be negative, got %g", c.ConnRateLimitRPS))
	}
	if c.NATSURL != "" && c.NATSSubject == "" {
		errs = append(errs, errors.New("NATS_SUBJECT must be set when NATS_URL is"))
	}
	return errors.Join(errs...)
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
