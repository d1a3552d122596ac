package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/config"
	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router wires modules from these singletons. Optional clients (Redis, GCS,
// Elasticsearch, RabbitMQ) stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	notifier  application.Notifier
	esClient  *elasticsearch.Client

	metricsRegistry prometheus.Registerer = prometheus.DefaultRegisterer
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

func SetNotifier(n application.Notifier) { notifier = n }

// GetNotifier falls back to a LogNotifier when no queue is configured.
func GetNotifier() application.Notifier {
	if notifier != nil {
		return notifier
	}
	return application.LogNotifier{Logger: logger}
}

func SetMetricsRegistry(r prometheus.Registerer) { metricsRegistry = r }
func GetMetricsRegistry() prometheus.Registerer  { return metricsRegistry }
