package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "RETAILNET"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "RETAILNET_DB_DSN"
	EnvDBHost = "RETAILNET_DB_HOST"
	EnvDBUser = "RETAILNET_DB_USER"
	EnvDBName = "RETAILNET_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Ingest        IngestConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Mail          MailConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RETAILNET_APP_ENV" required:"true"`
	Port         string `envconfig:"RETAILNET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RETAILNET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RETAILNET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"RETAILNET_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RETAILNET_DB_DSN"`
	Driver string `envconfig:"RETAILNET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RETAILNET_DB_HOST"`
	LegacyPort     int    `envconfig:"RETAILNET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RETAILNET_DB_USER"`
	LegacyPassword string `envconfig:"RETAILNET_DB_PASSWORD"`
	LegacyName     string `envconfig:"RETAILNET_DB_NAME"`
	LegacySSLMode  string `envconfig:"RETAILNET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RETAILNET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RETAILNET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RETAILNET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RETAILNET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RETAILNET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RETAILNET_REDIS_ADDR"`
	Password     string        `envconfig:"RETAILNET_REDIS_PASSWORD"`
	DB           int           `envconfig:"RETAILNET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RETAILNET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RETAILNET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RETAILNET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RETAILNET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RETAILNET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RETAILNET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RETAILNET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RETAILNET_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RETAILNET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RETAILNET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RETAILNET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RETAILNET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RETAILNET_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RETAILNET_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RETAILNET_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RETAILNET_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RETAILNET_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RETAILNET_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RETAILNET_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RETAILNET_AUTO_MIGRATE" default:"false"`
}

// IngestConfig controls price list reconciliation behavior.
//
// Upsert=false reproduces the historical behavior where re-ingesting an
// unchanged price list appends duplicate product_infos rows. Upsert=true
// updates listings in place keyed by (product, shop, external_id).
type IngestConfig struct {
	Upsert bool `envconfig:"RETAILNET_INGEST_UPSERT" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"RETAILNET_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"RETAILNET_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"RETAILNET_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"RETAILNET_PUBSUB_DOMAIN_TOPIC" default:"rn-domain-events"`
	DomainSubscription string `envconfig:"RETAILNET_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"RETAILNET_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"RETAILNET_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"RETAILNET_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"RETAILNET_OUTBOX_IDEMPOTENCY_TTL" default:"720h"`
}

type MailConfig struct {
	SMTPHost    string `envconfig:"RETAILNET_SMTP_HOST"`
	SMTPPort    int    `envconfig:"RETAILNET_SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"RETAILNET_SMTP_USER"`
	SMTPPass    string `envconfig:"RETAILNET_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"RETAILNET_MAIL_FROM" default:"noreply@retailnet.dev"`
}

// Enabled reports whether an SMTP relay is configured; otherwise mail is
// logged instead of sent.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.SMTPHost) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
