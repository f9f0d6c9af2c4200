package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Paystack      PaystackConfig
	Files         FilesConfig
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
	Env          string `envconfig:"HALISI_APP_ENV" required:"true"`
	Port         string `envconfig:"HALISI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HALISI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HALISI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HALISI_DB_DSN"`
	Driver string `envconfig:"HALISI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HALISI_DB_HOST"`
	LegacyPort     int    `envconfig:"HALISI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HALISI_DB_USER"`
	LegacyPassword string `envconfig:"HALISI_DB_PASSWORD"`
	LegacyName     string `envconfig:"HALISI_DB_NAME"`
	LegacySSLMode  string `envconfig:"HALISI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HALISI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HALISI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HALISI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HALISI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HALISI_REDIS_URL" required:"true"`
	Password     string        `envconfig:"HALISI_REDIS_PASSWORD"`
	DB           int           `envconfig:"HALISI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HALISI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HALISI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HALISI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HALISI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HALISI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HALISI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HALISI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HALISI_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HALISI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HALISI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HALISI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HALISI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HALISI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"HALISI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"HALISI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"HALISI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HALISI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HALISI_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	TTL      time.Duration `envconfig:"HALISI_CART_TTL" default:"168h"`
	MaxItems int           `envconfig:"HALISI_CART_MAX_ITEMS" default:"50"`
}

type PaystackConfig struct {
	SecretKey   string        `envconfig:"HALISI_PAYSTACK_SECRET_KEY"`
	BaseURL     string        `envconfig:"HALISI_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	CallbackURL string        `envconfig:"HALISI_PAYSTACK_CALLBACK_URL"`
	Timeout     time.Duration `envconfig:"HALISI_PAYSTACK_TIMEOUT" default:"15s"`
}

type FilesConfig struct {
	EbookRoot string `envconfig:"HALISI_EBOOK_FILE_ROOT" default:"./files"`
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
