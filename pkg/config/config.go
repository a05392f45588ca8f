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
	Uploads       UploadsConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"FTT_APP_ENV" required:"true"`
	Port         string `envconfig:"FTT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FTT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FTT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FTT_DB_DSN"`
	Driver string `envconfig:"FTT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FTT_DB_HOST"`
	Port     int    `envconfig:"FTT_DB_PORT" default:"5432"`
	User     string `envconfig:"FTT_DB_USER"`
	Password string `envconfig:"FTT_DB_PASSWORD"`
	Name     string `envconfig:"FTT_DB_NAME"`
	SSLMode  string `envconfig:"FTT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FTT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FTT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FTT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FTT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FTT_REDIS_URL"`
	Address      string        `envconfig:"FTT_REDIS_ADDR"`
	Password     string        `envconfig:"FTT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FTT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FTT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FTT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FTT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FTT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FTT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FTT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FTT_JWT_ISSUER" default:"farmtotable"`
	ExpirationMinutes int    `envconfig:"FTT_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FTT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FTT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FTT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FTT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FTT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FTT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FTT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FTT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FTT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FTT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FTT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	Dir             string `envconfig:"FTT_UPLOADS_DIR" default:"uploads"`
	PublicPrefix    string `envconfig:"FTT_UPLOADS_PUBLIC_PREFIX" default:"/uploads"`
	PlaceholderPath string `envconfig:"FTT_UPLOADS_PLACEHOLDER" default:"/assets/product_images/placeholder.png"`
	MaxUploadMB     int    `envconfig:"FTT_MAX_UPLOAD_MB" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FTT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FTT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if required[env] == "" {
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
