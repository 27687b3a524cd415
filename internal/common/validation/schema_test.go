// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"supplierPrice"},
		"properties": map[string]interface{}{
			"supplierPrice": map[string]interface{}{"type": "number", "minimum": 0},
			"source": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"aliexpress", "amazon", "temu", "manual"},
			},
		},
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantField string
		wantCode  string
	}{
		{
			name:      "valid input",
			input:     map[string]interface{}{"supplierPrice": 10.0, "source": "temu"},
			wantValid: true,
		},
		{
			name:      "missing required field",
			input:     map[string]interface{}{"source": "temu"},
			wantValid: false,
			wantField: "supplierPrice",
			wantCode:  "REQUIRED",
		},
		{
			name:      "wrong type",
			input:     map[string]interface{}{"supplierPrice": "ten"},
			wantValid: false,
			wantField: "supplierPrice",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "below minimum",
			input:     map[string]interface{}{"supplierPrice": -1},
			wantValid: false,
			wantField: "supplierPrice",
			wantCode:  "NUMBER_GTE",
		},
		{
			name:      "value outside enum",
			input:     map[string]interface{}{"supplierPrice": 3, "source": "ebay"},
			wantValid: false,
			wantField: "source",
			wantCode:  "ENUM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateInput(tt.input, priceSchema())
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)

			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			assert.Contains(t, result.Summary(), tt.wantField)
		})
	}
}

func TestValidateInput_EmptySchemaAcceptsAnything(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{"anything": true}, nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateInput_BrokenSchema(t *testing.T) {
	schema := map[string]interface{}{"type": 42}

	_, err := ValidateInput(map[string]interface{}{}, schema)
	assert.Error(t, err)
}

func TestValidationResult_MessagesSorted(t *testing.T) {
	r := &ValidationResult{Errors: []ValidationError{
		{Field: "source", Message: "bad"},
		{Field: "price", Message: "missing"},
	}}

	assert.Equal(t, []string{"price: missing", "source: bad"}, r.Messages())
	assert.Equal(t, "price: missing; source: bad", r.Summary())
}
