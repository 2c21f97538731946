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
	Mail          MailConfig
	Push          PushConfig
	Realtime      RealtimeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HOTEL_APP_ENV" required:"true"`
	Port         string `envconfig:"HOTEL_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"HOTEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HOTEL_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"HOTEL_LOG_FORMAT" default:"json"`
	CORSOrigins  string `envconfig:"HOTEL_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	origins := []string{}
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type DBConfig struct {
	DSN    string `envconfig:"HOTEL_DB_DSN"`
	Driver string `envconfig:"HOTEL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"HOTEL_DB_HOST"`
	Port     int    `envconfig:"HOTEL_DB_PORT" default:"5432"`
	User     string `envconfig:"HOTEL_DB_USER"`
	Password string `envconfig:"HOTEL_DB_PASSWORD"`
	Name     string `envconfig:"HOTEL_DB_NAME"`
	SSLMode  string `envconfig:"HOTEL_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"HOTEL_SQLITE_PATH" default:"hotel.db"`

	MaxOpenConns    int           `envconfig:"HOTEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HOTEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HOTEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOTEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HOTEL_REDIS_URL"`
	Address      string        `envconfig:"HOTEL_REDIS_ADDR"`
	Password     string        `envconfig:"HOTEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"HOTEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HOTEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HOTEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HOTEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HOTEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HOTEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"HOTEL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"HOTEL_JWT_ISSUER" default:"hotel-reclamations"`
	ExpirationMinutes      int    `envconfig:"HOTEL_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"HOTEL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HOTEL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HOTEL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HOTEL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HOTEL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HOTEL_ARGON_KEY_LEN" default:"32"`
	TempLength       int `envconfig:"HOTEL_TEMP_PASSWORD_LENGTH" default:"12"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"HOTEL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginNameLimit int           `envconfig:"HOTEL_AUTH_RATE_LIMIT_LOGIN_NAME_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"HOTEL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HOTEL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HOTEL_AUTO_MIGRATE" default:"false"`
	EnforceAuth bool `envconfig:"HOTEL_FEATURE_ENFORCE_AUTH" default:"false"`
}

type MailConfig struct {
	SendgridAPIKey string `envconfig:"HOTEL_SENDGRID_API_KEY"`
	SendgridHost   string `envconfig:"HOTEL_SENDGRID_HOST" default:"https://api.sendgrid.com"`
	FromEmail      string `envconfig:"HOTEL_MAIL_FROM_EMAIL" default:"no-reply@hotel.local"`
	FromName       string `envconfig:"HOTEL_MAIL_FROM_NAME" default:"Hotel administration"`
}

// Enabled reports whether a mail provider is configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.SendgridAPIKey) != ""
}

type PushConfig struct {
	OneSignalAppID  string        `envconfig:"HOTEL_ONESIGNAL_APP_ID"`
	OneSignalAPIKey string        `envconfig:"HOTEL_ONESIGNAL_REST_API_KEY"`
	BaseURL         string        `envconfig:"HOTEL_ONESIGNAL_BASE_URL" default:"https://onesignal.com/api/v1"`
	Timeout         time.Duration `envconfig:"HOTEL_ONESIGNAL_TIMEOUT" default:"10s"`
}

// Enabled reports whether push credentials are configured.
func (p PushConfig) Enabled() bool {
	return strings.TrimSpace(p.OneSignalAppID) != "" && strings.TrimSpace(p.OneSignalAPIKey) != ""
}

type RealtimeConfig struct {
	PingInterval time.Duration `envconfig:"HOTEL_REALTIME_PING_INTERVAL" default:"30s"`
	WriteTimeout time.Duration `envconfig:"HOTEL_REALTIME_WRITE_TIMEOUT" default:"10s"`
	SendBuffer   int           `envconfig:"HOTEL_REALTIME_SEND_BUFFER" default:"16"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range splitDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
