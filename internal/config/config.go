package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App         App
	Log         Log
	HTTP        HTTP
	Postgres    Postgres
	Redis       Redis
	Kafka       Kafka
	Bot         Bot
	Marketplace Marketplace
	Pricing     Pricing
	Auth        Auth
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"melidash"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Log struct {
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	Format   string `env:"LOG_FORMAT" envDefault:"text"`
	FieldMax int    `env:"LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
	// CompetitorTTL bounds how long fabricated competitor offers stay cached.
	CompetitorTTL    time.Duration `env:"REDIS_COMPETITOR_TTL" envDefault:"1h"`
	AsynqConcurrency int           `env:"ASYNQ_CONCURRENCY" envDefault:"2"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

type Kafka struct {
	Brokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"KAFKA_TOPIC" envDefault:"melidash.pricing.executions"`
	BatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"50ms"`
}

func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

type Marketplace struct {
	BaseURL string        `env:"MARKETPLACE_BASE_URL"`
	Token   string        `env:"MARKETPLACE_TOKEN" json:"-"`
	Timeout time.Duration `env:"MARKETPLACE_TIMEOUT" envDefault:"10s"`
	// SkipBodyLogging drops request and response bodies from outbound logs.
	SkipBodyLogging bool `env:"MARKETPLACE_SKIP_BODY_LOGGING" envDefault:"false"`
}

type Pricing struct {
	CostBasisRatio     float64       `env:"PRICING_COST_BASIS_RATIO" envDefault:"0.7"`
	AlertThreshold     float64       `env:"PRICING_ALERT_THRESHOLD" envDefault:"15"`
	RulesFile          string        `env:"PRICING_RULES_FILE"`
	SchedulerInterval  time.Duration `env:"PRICING_SCHEDULER_INTERVAL" envDefault:"15m"`
	SchedulerAutostart bool          `env:"PRICING_SCHEDULER_AUTOSTART" envDefault:"false"`
}

type Auth struct {
	JWTSecret         string        `env:"AUTH_JWT_SECRET,notEmpty" json:"-"`
	TokenTTL          time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"12h"`
	InviteTTL         time.Duration `env:"AUTH_INVITE_TTL" envDefault:"168h"`
	BootstrapEmail    string        `env:"AUTH_BOOTSTRAP_EMAIL"`
	BootstrapPassword string        `env:"AUTH_BOOTSTRAP_PASSWORD" json:"-"`
	// InviteBaseURL prefixes the links sent in invite and reset emails.
	InviteBaseURL string `env:"AUTH_INVITE_BASE_URL" envDefault:"http://localhost:3000"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if config.Pricing.SchedulerInterval <= 0 {
		return Config{}, errors.New("PRICING_SCHEDULER_INTERVAL must be positive")
	}

	return config, nil
}
