// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"dropship-workers/internal/scoring"
)

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Scoring      ScoringSection          `mapstructure:"scoring"`
	Cache        CacheConfig             `mapstructure:"cache"`
	Search       SearchConfig            `mapstructure:"search"`
	Server       ServerConfig            `mapstructure:"server"`
	RegistryPath string                  `mapstructure:"registry_path"`
}

// --- Core App/Infrastructure Config ---
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

// GetDSN returns the PostgreSQL connection string.
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
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the settings shared by every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
	Concurrency   int  `mapstructure:"concurrency"` // bulk workers only
}

// IntegrationConfig holds settings for outbound notification services.
type IntegrationConfig struct {
	AWS AWSConfig `mapstructure:"aws"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	SES    struct {
		Enabled   bool     `mapstructure:"enabled"`
		FromEmail string   `mapstructure:"from_email"`
		ToEmails  []string `mapstructure:"to_emails"`
	} `mapstructure:"ses"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CacheConfig controls the Redis analysis cache.
type CacheConfig struct {
	AnalysisTTL int    `mapstructure:"analysis_ttl"` // seconds
	KeyPrefix   string `mapstructure:"key_prefix"`
}

// TTL returns the analysis cache lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.AnalysisTTL) * time.Second
}

// SearchConfig names the Elasticsearch indices the workers write to.
type SearchConfig struct {
	TrendingIndex string `mapstructure:"trending_index"`
}

// ServerConfig is the health and metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// ScoringSection is the YAML form of scoring.Config. Omitted keys fall back
// to the stock configuration field by field; an explicit 0 is kept.
type ScoringSection struct {
	Weights           *scoring.Weights        `mapstructure:"weights"`
	WinnerThreshold   *float64                `mapstructure:"winner_threshold"`
	PotentialBands    *scoring.PotentialBands `mapstructure:"potential_bands"`
	MarkupMultipliers map[string]float64      `mapstructure:"markup_multipliers"`
	DefaultMarkup     *float64                `mapstructure:"default_markup"`
	Criteria          *scoring.Criteria       `mapstructure:"criteria"`
}

// ToScoringConfig builds the engine configuration. Weights are copied
// verbatim; use scoring.Config.Validate to reject suspicious values.
func (s ScoringSection) ToScoringConfig() *scoring.Config {
	cfg := scoring.DefaultConfig()

	if s.Weights != nil {
		cfg.Weights = *s.Weights
	}
	if s.WinnerThreshold != nil {
		cfg.WinnerThreshold = *s.WinnerThreshold
	}
	if s.PotentialBands != nil {
		cfg.Bands = *s.PotentialBands
	}
	for source, m := range s.MarkupMultipliers {
		cfg.MarkupMultipliers[scoring.Source(source)] = m
	}
	if s.DefaultMarkup != nil {
		cfg.DefaultMarkup = *s.DefaultMarkup
	}
	if s.Criteria != nil {
		cfg.Criteria = *s.Criteria
	}

	return cfg
}
