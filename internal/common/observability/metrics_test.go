// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("dropship-workers-test", reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	ctx := context.Background()
	obs.RecordJob(ctx, "score-product", "completed", 15*time.Millisecond)
	obs.RecordScore(ctx, "aliexpress", "high", 91)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}

	// The exporter keeps the dotted otel instrument names.
	assert.Contains(t, names, "worker.jobs_total")
	assert.Contains(t, names, "worker.job.duration_milliseconds")
	assert.Contains(t, names, "product.analysis.score")
}

func TestObservability_NilIsSafe(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		obs.RecordJob(context.Background(), "x", "completed", time.Second)
		obs.RecordScore(context.Background(), "temu", "low", 10)
		_ = obs.Shutdown(context.Background())
	})
}
