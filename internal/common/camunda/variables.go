// internal/common/camunda/variables.go
package camunda

import (
	"encoding/json"

	"dropship-workers/internal/common/errors"
	"dropship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
)

// DecodeVariables checks the job variables against the input schema
// registered for the job type, then decodes them into out. A nil registry
// skips the schema check.
func DecodeVariables(job entities.Job, reg *registry.ActivityRegistry, out interface{}) error {
	vars, err := job.GetVariablesAsMap()
	if err != nil {
		return errors.NewParseError(err)
	}

	if reg != nil {
		result, err := reg.ValidateInput(job.GetType(), vars)
		if err != nil {
			return errors.NewInternalError(err).WithMetadata("taskType", job.GetType())
		}
		if !result.Valid {
			return errors.NewValidationError(result.Summary()).WithMetadata("taskType", job.GetType())
		}
	}

	if err := json.Unmarshal([]byte(job.GetVariables()), out); err != nil {
		return errors.NewParseError(err)
	}
	return nil
}
