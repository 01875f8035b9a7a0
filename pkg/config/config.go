package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App            AppConfig
	GCP            GCPConfig
	Firestore      FirestoreConfig
	Redis          RedisConfig
	AdminRateLimit AdminRateLimitConfig
	PubSub         PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CELEBRE_APP_ENV" required:"true"`
	Port         string `envconfig:"CELEBRE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CELEBRE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CELEBRE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type GCPConfig struct {
	ProjectID       string `envconfig:"CELEBRE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON string `envconfig:"CELEBRE_GCP_CREDENTIALS_JSON"`
}

type FirestoreConfig struct {
	SuppliersCollection  string `envconfig:"CELEBRE_FIRESTORE_SUPPLIERS_COLLECTION" default:"suppliers"`
	AdminsCollection     string `envconfig:"CELEBRE_FIRESTORE_ADMINS_COLLECTION" default:"admins"`
	UsersCollection      string `envconfig:"CELEBRE_FIRESTORE_USERS_COLLECTION" default:"users"`
	RateLimitsCollection string `envconfig:"CELEBRE_FIRESTORE_RATE_LIMITS_COLLECTION" default:"rateLimits"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CELEBRE_REDIS_URL"`
	Address      string        `envconfig:"CELEBRE_REDIS_ADDR"`
	Password     string        `envconfig:"CELEBRE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CELEBRE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CELEBRE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CELEBRE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CELEBRE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CELEBRE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CELEBRE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AdminRateLimitConfig struct {
	Window      time.Duration `envconfig:"CELEBRE_ADMIN_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit     int           `envconfig:"CELEBRE_ADMIN_RATE_LIMIT_IP_LIMIT" default:"30"`
	CallerLimit int           `envconfig:"CELEBRE_ADMIN_RATE_LIMIT_CALLER_LIMIT" default:"15"`
}

type PubSubConfig struct {
	AuditTopic string `envconfig:"CELEBRE_PUBSUB_AUDIT_TOPIC"`
}
