package config

import (
	"context"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	BaseURL  string `env:"BASE_URL,  default=http://localhost:8080"`

	JWTAccessSecret  string `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET"`

	MySQL MySQLConfig
	Redis RedisConfig
	SMTP  SMTPConfig
	Kafka KafkaConfig
}

type MySQLConfig struct {
	DSN string `env:"MYSQL_DSN, default=root:root@tcp(127.0.0.1:3306)/commflock?charset=utf8mb4&parseTime=True"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=CommFlock <noreply@commflock.com>"`
}

type KafkaConfig struct {
	Brokers string `env:"KAFKA_BROKERS"` // comma separated; empty disables the relay
	Topic   string `env:"KAFKA_TOPIC, default=commflock.activity"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (k KafkaConfig) BrokerList() []string {
	if strings.TrimSpace(k.Brokers) == "" {
		return nil
	}
	parts := strings.Split(k.Brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
