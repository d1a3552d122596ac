package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName   string
	Env       string // development, staging, production
	Port      string
	GinMode   string
	APIPrefix string // route group prefix, empty serves at the root

	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis (rate limiting)
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RateLimitPerMin   int
	AuthRateLimitPerM int

	// Google Cloud Storage (optional avatar mirror)
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used
	GCSAvatarPrefix        string

	// JWT
	JWTSecret string
	TokenTTL  time.Duration // 0 means tokens never expire and live until logout

	// Avatar
	AvatarMaxBytes int64
	AvatarSize     int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations
	MigrationsDir string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// RabbitMQ
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated, empty disables task search indexing
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESTasksIndex       string

	// Email
	MailSendEnabled bool
	MailFromName    string

	// HTTP
	RequestTimeout    time.Duration
	HTTPLogEnabled    bool
	TrustProxyHeaders bool // honor CF-Connecting-IP / X-Forwarded-For

	// Debug metrics (/debug/vars)
	DebugMetricsEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:   getenv("APP_NAME", "task-manager-api"),
		Env:       getenv("APP_ENV", "development"),
		Port:      getenv("PORT", "3000"),
		GinMode:   getenv("GIN_MODE", "release"),
		APIPrefix: getenv("API_PREFIX", ""),

		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "task_manager"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getint("REDIS_DB", 0),
		RateLimitPerMin:   getint("RATE_LIMIT_PER_MINUTE", 300),
		AuthRateLimitPerM: getint("AUTH_RATE_LIMIT_PER_MINUTE", 10),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),
		GCSAvatarPrefix:        getenv("GCS_AVATAR_PREFIX", "avatars"),

		JWTSecret: getenv("JWT_SECRET", "thisismynewcourse"),
		TokenTTL:  getdur("JWT_TTL", 0),

		AvatarMaxBytes: int64(getint("AVATAR_MAX_BYTES", 1_000_000)),
		AvatarSize:     getint("AVATAR_SIZE", 250),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESTasksIndex:       getenv("ES_TASKS_INDEX", "tasks"),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),
		MailFromName:    getenv("MAIL_FROM_NAME", "Task Manager"),

		RequestTimeout:    getdur("HTTP_REQUEST_TIMEOUT", 15*time.Second),
		HTTPLogEnabled:    getbool("HTTP_LOG_ENABLED", false),
		TrustProxyHeaders: getbool("TRUST_PROXY_HEADERS", false),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),
	}
}

// PostgresDSN returns a pgx URL; credentials are escaped.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
