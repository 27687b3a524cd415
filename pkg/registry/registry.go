// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dropship-workers/internal/common/validation"
)

// LoadRegistry reads a registry document from path.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Load returns the built-in registry with any activities from path layered on
// top, matched by task type. An empty path returns the built-in registry.
func Load(path string) (*ActivityRegistry, error) {
	reg := Default()
	if path == "" {
		return reg, nil
	}

	override, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}

	if override.Version != "" {
		reg.Version = override.Version
	}
	if override.LastUpdated != "" {
		reg.LastUpdated = override.LastUpdated
	}
	for _, a := range override.Activities {
		reg.upsert(a)
	}
	return reg, nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// ValidateInput checks job variables against the input schema registered for
// taskType. Unregistered task types are accepted.
func (r *ActivityRegistry) ValidateInput(taskType string, variables map[string]interface{}) (*validation.ValidationResult, error) {
	activity, ok := r.Find(taskType)
	if !ok {
		return &validation.ValidationResult{Valid: true}, nil
	}
	return validation.ValidateInput(variables, activity.InputSchema)
}

func (r *ActivityRegistry) upsert(a Activity) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == a.TaskType {
			r.Activities[i] = a
			return
		}
	}
	r.Activities = append(r.Activities, a)
}

// Save writes the registry as indented JSON, creating parent directories.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write registry %s: %w", path, err)
	}
	return nil
}

// Lint reports structural problems: missing identifiers, duplicate IDs or
// task types, and input schemas that do not compile.
func (r *ActivityRegistry) Lint() []error {
	var problems []error
	if len(r.Activities) == 0 {
		return []error{fmt.Errorf("registry contains no activities")}
	}

	ids := map[string]bool{}
	tasks := map[string]bool{}
	for _, a := range r.Activities {
		if a.ID == "" {
			problems = append(problems, fmt.Errorf("activity with task type %q has no id", a.TaskType))
		} else if ids[a.ID] {
			problems = append(problems, fmt.Errorf("duplicate activity id %s", a.ID))
		}
		ids[a.ID] = true

		if a.TaskType == "" {
			problems = append(problems, fmt.Errorf("activity %s has no task type", a.ID))
			continue
		}
		if tasks[a.TaskType] {
			problems = append(problems, fmt.Errorf("duplicate task type %s", a.TaskType))
		}
		tasks[a.TaskType] = true

		if _, err := validation.ValidateInput(map[string]interface{}{}, a.InputSchema); err != nil {
			problems = append(problems, fmt.Errorf("activity %s: %w", a.ID, err))
		}
	}
	return problems
}
