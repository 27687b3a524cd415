// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"dropship-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: dropship-workers
  environment: test
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: dropship
    user: worker
    password: ${TEST_PG_PASSWORD}
  elasticsearch:
    addresses:
      - http://localhost:9200
  redis:
    address: localhost:6379
workers:
  score-product:
    enabled: true
    max_jobs_active: 20
  notify-winner:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 3600, cfg.Cache.AnalysisTTL)
	assert.Equal(t, "product:analysis:", cfg.Cache.KeyPrefix)
	assert.Equal(t, "trending_products", cfg.Search.TrendingIndex)
	assert.Equal(t, ":8080", cfg.Server.Address)

	w := GetWorkerConfig(cfg, "score-product")
	assert.Equal(t, 20, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "notify-winner"))
	assert.True(t, IsWorkerEnabled(cfg, "estimate-price"))

	assert.Equal(t, scoring.DefaultConfig(), cfg.Scoring.ToScoringConfig())
}

func TestLoadFromFile_ScoringSection(t *testing.T) {
	body := baseYAML + `
scoring:
  weights:
    reviews: 0.4
    rating: 0.1
    orders: 0.25
    profit: 0.25
  winner_threshold: 65
  markup_multipliers:
    temu: 3.5
  criteria:
    min_reviews: 50
    min_rating: 4.2
    max_supplier_price: 30
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	sc := cfg.Scoring.ToScoringConfig()
	assert.Equal(t, scoring.Weights{Reviews: 0.4, Rating: 0.1, Orders: 0.25, Profit: 0.25}, sc.Weights)
	assert.Equal(t, 65.0, sc.WinnerThreshold)
	assert.Equal(t, 3.5, sc.Markup(scoring.SourceTemu))
	assert.Equal(t, 1.8, sc.Markup(scoring.SourceAmazon))
	assert.Equal(t, scoring.Criteria{MinReviews: 50, MinRating: 4.2, MaxSupplierPrice: 30}, sc.Criteria)
	assert.Equal(t, scoring.PotentialBands{High: 75, Medium: 50}, sc.Bands)
}

func TestLoadFromFile_RejectsNegativeWeight(t *testing.T) {
	body := baseYAML + `
scoring:
  weights:
    reviews: -1
`
	_, err := LoadFromFile(writeConfig(t, body))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight reviews must be non-negative")
}

func TestLoadFromFile_ExplicitZeroScoringValues(t *testing.T) {
	tests := []struct {
		name      string
		scoring   string
		threshold float64
		wantErr   string
	}{
		{"threshold zero is kept", "  winner_threshold: 0\n", 0, ""},
		{"omitted threshold uses default", "  markup_multipliers:\n    temu: 3.5\n", 70, ""},
		{"markup zero is rejected", "  default_markup: 0\n", 0, "default markup must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromFile(writeConfig(t, baseYAML+"scoring:\n"+tt.scoring))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.threshold, cfg.Scoring.ToScoringConfig().WinnerThreshold)
		})
	}
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("DATABASE_REDIS_ADDRESS", "redis.internal:6380")
	t.Setenv("WINNER_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:winners")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6380", cfg.Database.Redis.Address)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:winners", cfg.Integrations.AWS.SNS.TopicARN)
}

func TestLoadFromFile_MissingRequired(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "app:\n  name: x\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address is required")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", p.GetDSN())
}
