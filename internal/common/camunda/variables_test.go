// internal/common/camunda/variables_test.go
package camunda

import (
	"testing"

	"dropship-workers/internal/common/errors"
	"dropship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobWith(taskType, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       1,
		Type:      taskType,
		Retries:   3,
		Variables: variables,
	}}
}

type priceInput struct {
	SupplierPrice float64 `json:"supplierPrice"`
	Source        string  `json:"source"`
}

func TestDecodeVariables(t *testing.T) {
	tests := []struct {
		name     string
		vars     string
		wantCode errors.ErrorCode
	}{
		{name: "valid", vars: `{"supplierPrice": 12.5, "source": "temu"}`},
		{name: "malformed json", vars: `{"supplierPrice": `, wantCode: errors.ErrCodeParseError},
		{name: "schema violation", vars: `{"source": "temu"}`, wantCode: errors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in priceInput
			err := DecodeVariables(jobWith(registry.TaskEstimatePrice, tt.vars), registry.Default(), &in)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, 12.5, in.SupplierPrice)
				assert.Equal(t, "temu", in.Source)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.AsStandardError(err).Code)
		})
	}
}

func TestDecodeVariables_NilRegistrySkipsSchema(t *testing.T) {
	var in priceInput
	err := DecodeVariables(jobWith(registry.TaskEstimatePrice, `{"source": "amazon"}`), nil, &in)

	require.NoError(t, err)
	assert.Equal(t, "amazon", in.Source)
}
