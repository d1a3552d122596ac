package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("AVATAR_MAX_BYTES", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.Equal(t, int64(1_000_000), cfg.AvatarMaxBytes)
	assert.Equal(t, 250, cfg.AvatarSize)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.MailSendEnabled)
	assert.Equal(t, int32(10), cfg.DBMaxConns, "invalid ints fall back to the default")
}

func TestListHelpers(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test, ,http://b.test ",
		ElasticsearchAddrs: "",
	}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "db", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", cfg.PostgresDSN())
}

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "tasks", DBSSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/tasks?sslmode=require", cfg.PostgresDSN())
}
