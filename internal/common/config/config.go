// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"cockpit-fit-workers/internal/fit"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Fit           FitConfig               `mapstructure:"fit"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// WorkerConfig holds the settings every worker shares.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ObservabilityConfig struct {
	HTTPPort       int     `mapstructure:"http_port"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// FitConfig carries the domain settings: hood geometry shared by the engine,
// the legacy adapter and the projector, plus frame catalog access.
type FitConfig struct {
	Hood    HoodConfig    `mapstructure:"hood"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

type HoodConfig struct {
	DefaultOffsetMm        float64 `mapstructure:"default_offset_mm"`
	EffectiveReachOffsetMm float64 `mapstructure:"effective_reach_offset_mm"`
	VisualOffsetMm         float64 `mapstructure:"visual_offset_mm"`
	VisualRisePx           float64 `mapstructure:"visual_rise_px"`
}

// Geometry converts the configured offsets for the fit packages.
func (h HoodConfig) Geometry() fit.HoodGeometry {
	return fit.HoodGeometry{
		DefaultOffsetMm:        h.DefaultOffsetMm,
		EffectiveReachOffsetMm: h.EffectiveReachOffsetMm,
		VisualOffsetMm:         h.VisualOffsetMm,
		VisualRisePx:           h.VisualRisePx,
	}
}

type CatalogConfig struct {
	FramesIndex   string `mapstructure:"frames_index"`
	CacheTTL      int    `mapstructure:"cache_ttl"` // milliseconds
	SearchMaxSize int    `mapstructure:"search_max_size"`
}

func (c CatalogConfig) CacheTTLDuration() time.Duration {
	return GetDuration(c.CacheTTL)
}
