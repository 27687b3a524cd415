// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RegistersEveryProductTask(t *testing.T) {
	reg := Default()

	for _, task := range []string{
		TaskScoreProduct,
		TaskScreenProducts,
		TaskEstimatePrice,
		TaskSaveProductAnalysis,
		TaskIndexTrendingProduct,
		TaskNotifyWinner,
	} {
		a, ok := reg.Find(task)
		require.True(t, ok, task)
		assert.NotEmpty(t, a.InputSchema, task)
		assert.NotEmpty(t, a.ErrorCodes, task)
	}

	_, ok := reg.Find("unknown")
	assert.False(t, ok)
}

func TestDefault_ReturnsFreshCopy(t *testing.T) {
	a := Default()
	a.Activities[0].Retries = 99

	assert.NotEqual(t, 99, Default().Activities[0].Retries)
}

func TestValidateInput(t *testing.T) {
	reg := Default()

	tests := []struct {
		name     string
		taskType string
		vars     map[string]interface{}
		want     bool
	}{
		{
			name:     "score with typed signal",
			taskType: TaskScoreProduct,
			vars: map[string]interface{}{
				"signal": map[string]interface{}{"reviewCount": 1200, "rating": 4.6, "source": "temu"},
			},
			want: true,
		},
		{
			name:     "score with raw listing",
			taskType: TaskScoreProduct,
			vars: map[string]interface{}{
				"listing": map[string]interface{}{"reviews": "1,234 reviews", "price": "$12.99"},
			},
			want: true,
		},
		{
			name:     "score with unknown source still valid",
			taskType: TaskScoreProduct,
			vars:     map[string]interface{}{"signal": map[string]interface{}{"source": "ebay"}},
			want:     true,
		},
		{
			name:     "score without signal or listing",
			taskType: TaskScoreProduct,
			vars:     map[string]interface{}{"productId": "p-1"},
			want:     false,
		},
		{
			name:     "rating above five",
			taskType: TaskScoreProduct,
			vars:     map[string]interface{}{"signal": map[string]interface{}{"rating": 7}},
			want:     false,
		},
		{
			name:     "negative supplier price",
			taskType: TaskEstimatePrice,
			vars:     map[string]interface{}{"supplierPrice": -3},
			want:     false,
		},
		{
			name:     "save without product id",
			taskType: TaskSaveProductAnalysis,
			vars: map[string]interface{}{
				"analysis": map[string]interface{}{"totalScore": 80, "isWinner": true, "potential": "high"},
			},
			want: false,
		},
		{
			name:     "notify with bad potential",
			taskType: TaskNotifyWinner,
			vars: map[string]interface{}{
				"productId": "p-1",
				"analysis":  map[string]interface{}{"totalScore": 80, "isWinner": true, "potential": "viral"},
			},
			want: false,
		},
		{
			name:     "unregistered task",
			taskType: "something-else",
			vars:     map[string]interface{}{},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := reg.ValidateInput(tt.taskType, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Valid, result.Summary())
		})
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	doc := `{
		"version": "2.0.0",
		"activities": [
			{"id": "product.estimate-price", "taskType": "estimate-price", "timeout": "2s", "retries": 0,
			 "inputSchema": {"type": "object"}},
			{"id": "product.archive", "taskType": "archive-product", "timeout": "5s", "retries": 1}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", reg.Version)
	assert.Len(t, reg.Activities, 7)

	est, ok := reg.Find(TaskEstimatePrice)
	require.True(t, ok)
	assert.Equal(t, "2s", est.Timeout)

	result, err := reg.ValidateInput(TaskEstimatePrice, map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, ok = reg.Find("archive-product")
	assert.True(t, ok)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 6)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = LoadRegistry(bad)
	assert.Error(t, err)
}

func TestSave_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	require.NoError(t, Default().Save(path))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 6)
	assert.Empty(t, reg.Lint())
}

func TestLint(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		want       int
	}{
		{name: "empty registry", activities: nil, want: 1},
		{name: "clean", activities: []Activity{{ID: "a", TaskType: "a"}, {ID: "b", TaskType: "b"}}, want: 0},
		{name: "duplicate id", activities: []Activity{{ID: "a", TaskType: "a"}, {ID: "a", TaskType: "b"}}, want: 1},
		{name: "duplicate task type", activities: []Activity{{ID: "a", TaskType: "a"}, {ID: "b", TaskType: "a"}}, want: 1},
		{name: "missing id and task type", activities: []Activity{{TaskType: "a"}, {ID: "b"}}, want: 2},
		{
			name:       "broken schema",
			activities: []Activity{{ID: "a", TaskType: "a", InputSchema: map[string]interface{}{"type": 42}}},
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: tt.activities}
			assert.Len(t, reg.Lint(), tt.want)
		})
	}
}
