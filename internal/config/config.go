package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	AAI          AAIConfig
	Babel        BabelConfig
	Catalog      CatalogConfig
	Database     DatabaseConfig
	Distribution DistributionConfig
	Metrics      MetricsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level  string
	Format string
}

// AAIConfig configures the A&AI REST store that receives models, named
// queries and, with the aai catalog backend, VNF images.
type AAIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	FromAppID      string
	Username       string
	Password       string
	DefaultVersion string
	CatalogVersion string

	ModelPath        string
	ModelVersionPath string
	NamedQueryPath   string
	VnfImagePath     string
}

// BabelConfig configures the service converting legacy models.
type BabelConfig struct {
	Enabled bool
	URL     string
	Timeout time.Duration
}

const (
	CatalogBackendAAI        = "aai"
	CatalogBackendKubernetes = "kubernetes"
)

type CatalogConfig struct {
	Backend        string
	InCluster      bool
	KubeConfigPath string
	Namespace      string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type DistributionConfig struct {
	MaxConcurrentBatches int
	QueueSize            int
	SourceURL            string
	ConsumerID           string
	Heartbeat            time.Duration

	ReconnectInitial    time.Duration
	ReconnectMax        time.Duration
	ReconnectMultiplier float64
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	v.SetDefault("AAI_BASE_URL", "https://aai.onap:8443")
	v.SetDefault("AAI_TIMEOUT", "30s")
	v.SetDefault("AAI_FROM_APP_ID", "ModelLoader")
	v.SetDefault("AAI_USERNAME", "")
	v.SetDefault("AAI_PASSWORD", "")
	v.SetDefault("AAI_DEFAULT_VERSION", "v11")
	v.SetDefault("AAI_CATALOG_VERSION", "v11")
	v.SetDefault("AAI_MODEL_PATH", "/aai/{version}/service-design-and-creation/models/model/")
	v.SetDefault("AAI_MODEL_VERSION_PATH", "/model-vers/model-ver/")
	v.SetDefault("AAI_NAMED_QUERY_PATH", "/aai/{version}/service-design-and-creation/named-queries/named-query/")
	v.SetDefault("AAI_VNF_IMAGE_PATH", "/aai/{version}/service-design-and-creation/vnf-images/vnf-image/")

	v.SetDefault("BABEL_ENABLED", true)
	v.SetDefault("BABEL_URL", "https://aai-babel.onap:9516/services/babel-service/v1/app/generateArtifacts")
	v.SetDefault("BABEL_TIMEOUT", "60s")

	v.SetDefault("CATALOG_BACKEND", CatalogBackendAAI)
	v.SetDefault("CATALOG_IN_CLUSTER", false)
	v.SetDefault("CATALOG_KUBECONFIG", "")
	v.SetDefault("CATALOG_NAMESPACE", "onap")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "model_loader")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("DISTRIBUTION_MAX_CONCURRENT_BATCHES", 4)
	v.SetDefault("DISTRIBUTION_QUEUE_SIZE", 64)
	v.SetDefault("DISTRIBUTION_SOURCE_URL", "")
	v.SetDefault("DISTRIBUTION_CONSUMER_ID", "aai-model-loader")
	v.SetDefault("DISTRIBUTION_HEARTBEAT", "30s")
	v.SetDefault("DISTRIBUTION_RECONNECT_INITIAL", "1s")
	v.SetDefault("DISTRIBUTION_RECONNECT_MAX", "60s")
	v.SetDefault("DISTRIBUTION_RECONNECT_MULTIPLIER", 2.0)

	v.SetDefault("METRICS_ENABLED", true)

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		AAI: AAIConfig{
			BaseURL:          v.GetString("AAI_BASE_URL"),
			Timeout:          duration(v, "AAI_TIMEOUT", 30*time.Second),
			FromAppID:        v.GetString("AAI_FROM_APP_ID"),
			Username:         v.GetString("AAI_USERNAME"),
			Password:         v.GetString("AAI_PASSWORD"),
			DefaultVersion:   v.GetString("AAI_DEFAULT_VERSION"),
			CatalogVersion:   v.GetString("AAI_CATALOG_VERSION"),
			ModelPath:        v.GetString("AAI_MODEL_PATH"),
			ModelVersionPath: v.GetString("AAI_MODEL_VERSION_PATH"),
			NamedQueryPath:   v.GetString("AAI_NAMED_QUERY_PATH"),
			VnfImagePath:     v.GetString("AAI_VNF_IMAGE_PATH"),
		},
		Babel: BabelConfig{
			Enabled: v.GetBool("BABEL_ENABLED"),
			URL:     v.GetString("BABEL_URL"),
			Timeout: duration(v, "BABEL_TIMEOUT", 60*time.Second),
		},
		Catalog: CatalogConfig{
			Backend:        v.GetString("CATALOG_BACKEND"),
			InCluster:      v.GetBool("CATALOG_IN_CLUSTER"),
			KubeConfigPath: v.GetString("CATALOG_KUBECONFIG"),
			Namespace:      v.GetString("CATALOG_NAMESPACE"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Distribution: DistributionConfig{
			MaxConcurrentBatches: v.GetInt("DISTRIBUTION_MAX_CONCURRENT_BATCHES"),
			QueueSize:            v.GetInt("DISTRIBUTION_QUEUE_SIZE"),
			SourceURL:            v.GetString("DISTRIBUTION_SOURCE_URL"),
			ConsumerID:           v.GetString("DISTRIBUTION_CONSUMER_ID"),
			Heartbeat:            duration(v, "DISTRIBUTION_HEARTBEAT", 30*time.Second),
			ReconnectInitial:     duration(v, "DISTRIBUTION_RECONNECT_INITIAL", time.Second),
			ReconnectMax:         duration(v, "DISTRIBUTION_RECONNECT_MAX", time.Minute),
			ReconnectMultiplier:  v.GetFloat64("DISTRIBUTION_RECONNECT_MULTIPLIER"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	switch cfg.Catalog.Backend {
	case CatalogBackendAAI, CatalogBackendKubernetes:
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog.Backend)
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
