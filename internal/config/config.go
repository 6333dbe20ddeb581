package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	QueueSync      = "sync"
	QueueInProcess = "inprocess"
	QueueRedis     = "redis"
)

type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"3001"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresURL string `envconfig:"POSTGRES_URL" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"feedback.db"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	JWTSecret         string            `envconfig:"JWT_SECRET" default:""`
	TokenTTL          time.Duration     `envconfig:"JWT_TTL" default:"24h"`
	AdminPassword     string            `envconfig:"ADMIN_PASSWORD" default:""`
	AdminUsers        map[string]string `envconfig:"ADMIN_USERS"`
	LoginFailureDelay time.Duration     `envconfig:"LOGIN_FAILURE_DELAY" default:"1s"`

	CORSOrigins []string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`

	TextMaxLength  int           `envconfig:"TEXT_MAX_LENGTH" default:"1000"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	ReaperInterval time.Duration `envconfig:"SESSION_REAPER_INTERVAL" default:"1h"`

	AnalyticsQueue   string `envconfig:"ANALYTICS_QUEUE" default:"inprocess"`
	AnalyticsWorkers int    `envconfig:"ANALYTICS_WORKERS" default:"1"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisQueueKey string `envconfig:"REDIS_QUEUE_KEY" default:"feedback:analytics:jobs"`

	MinIOEndpoint  string `envconfig:"MINIO_ENDPOINT" default:""`
	MinIOAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:""`
	MinIOSecretKey string `envconfig:"MINIO_SECRET_KEY" default:""`
	MinIOBucket    string `envconfig:"MINIO_BUCKET" default:"feedback-exports"`
	MinIOUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	QuestionSeedFile string `envconfig:"QUESTION_SEED_FILE" default:""`

	LogDir   string `envconfig:"LOG_DIR" default:"./logs"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.AnalyticsQueue = strings.ToLower(strings.TrimSpace(c.AnalyticsQueue))

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins

	users := make(map[string]string, len(c.AdminUsers))
	for email, pw := range c.AdminUsers {
		users[strings.ToLower(strings.TrimSpace(email))] = pw
	}
	c.AdminUsers = users
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.AdminPassword == "" && len(c.AdminUsers) == 0 {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_USERS is required"))
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required for the postgres driver"))
		}
	case DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	switch c.AnalyticsQueue {
	case QueueSync, QueueInProcess, QueueRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown ANALYTICS_QUEUE %q", c.AnalyticsQueue))
	}
	if c.TextMaxLength <= 0 {
		errs = append(errs, errors.New("TEXT_MAX_LENGTH must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) ArchiveEnabled() bool {
	return c.MinIOEndpoint != ""
}
