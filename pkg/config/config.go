package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "plantcare"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PLANTCARE_APP_ENV"
	EnvDBDSN  = "PLANTCARE_DB_DSN"
	EnvDBHost = "PLANTCARE_DB_HOST"
	EnvDBUser = "PLANTCARE_DB_USER"
	EnvDBName = "PLANTCARE_DB_NAME"
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
	GCP           GCPConfig
	GCS           GCSConfig
	Email         EmailConfig
	Reminders     RemindersConfig
	Cron          CronConfig
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
	Env          string `envconfig:"PLANTCARE_APP_ENV" required:"true"`
	Port         string `envconfig:"PLANTCARE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PLANTCARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PLANTCARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PLANTCARE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PLANTCARE_DB_DSN"`
	Driver string `envconfig:"PLANTCARE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PLANTCARE_DB_HOST"`
	LegacyPort     int    `envconfig:"PLANTCARE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PLANTCARE_DB_USER"`
	LegacyPassword string `envconfig:"PLANTCARE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PLANTCARE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PLANTCARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PLANTCARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PLANTCARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PLANTCARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PLANTCARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PLANTCARE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PLANTCARE_REDIS_ADDR"`
	Password     string        `envconfig:"PLANTCARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PLANTCARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PLANTCARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PLANTCARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PLANTCARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PLANTCARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PLANTCARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PLANTCARE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PLANTCARE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PLANTCARE_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"PLANTCARE_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PLANTCARE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PLANTCARE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PLANTCARE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PLANTCARE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PLANTCARE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PLANTCARE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PLANTCARE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PLANTCARE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PLANTCARE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PLANTCARE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PLANTCARE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PLANTCARE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PLANTCARE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PLANTCARE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PLANTCARE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"PLANTCARE_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"PLANTCARE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"PLANTCARE_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type EmailConfig struct {
	ResendAPIKey string `envconfig:"PLANTCARE_RESEND_API_KEY"`
	FromAddress  string `envconfig:"PLANTCARE_EMAIL_FROM" default:"reminders@plantcare.app"`
}

type RemindersConfig struct {
	// TriggerSecret guards the manual HTTP cron trigger. An empty value
	// disables the check entirely.
	TriggerSecret             string `envconfig:"PLANTCARE_CRON_TRIGGER_SECRET"`
	DefaultAdvanceNoticeHours int    `envconfig:"PLANTCARE_DEFAULT_ADVANCE_NOTICE_HOURS" default:"24"`
	NotificationRetentionDays int    `envconfig:"PLANTCARE_NOTIFICATION_RETENTION_DAYS" default:"90"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PLANTCARE_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"PLANTCARE_CRON_LOCK_TTL" default:"2h"`
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
