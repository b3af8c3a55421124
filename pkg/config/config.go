package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Shipping      ShippingConfig
	SMTP          SMTPConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Shipping.Cost(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SWIFTSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SWIFTSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SWIFTSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SWIFTSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SWIFTSHOP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SWIFTSHOP_DB_DSN"`
	Driver string `envconfig:"SWIFTSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SWIFTSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"SWIFTSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SWIFTSHOP_DB_USER"`
	LegacyPassword string `envconfig:"SWIFTSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SWIFTSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SWIFTSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SWIFTSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SWIFTSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SWIFTSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SWIFTSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SWIFTSHOP_REDIS_URL"`
	Address      string        `envconfig:"SWIFTSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SWIFTSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SWIFTSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SWIFTSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SWIFTSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SWIFTSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SWIFTSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SWIFTSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"SWIFTSHOP_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"SWIFTSHOP_JWT_ISSUER" default:"swiftshop"`
	ExpirationHours int    `envconfig:"SWIFTSHOP_JWT_EXPIRATION_HOURS" default:"24"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationHours <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SWIFTSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SWIFTSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SWIFTSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SWIFTSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SWIFTSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SWIFTSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SWIFTSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SWIFTSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SWIFTSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SWIFTSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SWIFTSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SWIFTSHOP_AUTO_MIGRATE" default:"false"`
}

// ShippingConfig carries the flat shipping fee charged per order.
type ShippingConfig struct {
	FlatCost string `envconfig:"SWIFTSHOP_SHIPPING_FLAT_COST" default:"50.00"`
}

// Cost parses the configured flat fee into a decimal amount.
func (s ShippingConfig) Cost() (decimal.Decimal, error) {
	cost, err := decimal.NewFromString(strings.TrimSpace(s.FlatCost))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid shipping flat cost %q: %w", s.FlatCost, err)
	}
	if cost.IsNegative() {
		return decimal.Zero, fmt.Errorf("shipping flat cost cannot be negative")
	}
	return cost, nil
}

type SMTPConfig struct {
	Host       string `envconfig:"SWIFTSHOP_SMTP_HOST"`
	Port       int    `envconfig:"SWIFTSHOP_SMTP_PORT" default:"587"`
	Username   string `envconfig:"SWIFTSHOP_SMTP_USERNAME"`
	Password   string `envconfig:"SWIFTSHOP_SMTP_PASSWORD"`
	From       string `envconfig:"SWIFTSHOP_SMTP_FROM"`
	AdminEmail string `envconfig:"SWIFTSHOP_ADMIN_EMAIL"`
}

// Addr returns the host:port pair for the SMTP dialer.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SWIFTSHOP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SWIFTSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SWIFTSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"SWIFTSHOP_PUBSUB_NOTIFICATION_TOPIC" default:"ss-notification-events"`
	NotificationSubscription string `envconfig:"SWIFTSHOP_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"ss-notification-events-worker"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SWIFTSHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SWIFTSHOP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SWIFTSHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
