// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"dropship-workers/pkg/registry"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)

	exportPath := exportCmd.String("path", "configs/activity-registry.json", "Where to write the built-in registry")

	updatePath := updateCmd.String("path", "configs/activity-registry.json", "Registry file to edit")
	taskUpdate := updateCmd.String("task", "", "Task type to update (e.g., score-product)")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries, description)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", "configs/activity-registry.json", "Registry file to validate")

	checkPath := checkCmd.String("path", "", "Registry overlay file (empty uses built-in)")
	taskCheck := checkCmd.String("task", "", "Task type whose input schema to check against")
	varsFile := checkCmd.String("vars", "", "JSON file with job variables")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		reg := registry.Default()
		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		if err := reg.Save(*exportPath); err != nil {
			exitf("Error exporting registry: %v", err)
		}
		fmt.Printf("Wrote %d activities to %s\n", len(reg.Activities), *exportPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *taskUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: task, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *taskUpdate, *field, *value); err != nil {
			exitf("Error updating activity: %v", err)
		}
		fmt.Printf("Updated %s: %s = %s\n", *taskUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			exitf("Error loading registry: %v", err)
		}
		problems := reg.Lint()
		for _, p := range problems {
			fmt.Printf("  - %v\n", p)
		}
		if len(problems) > 0 {
			exitf("Registry validation failed with %d problem(s).", len(problems))
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "check":
		checkCmd.Parse(os.Args[2:])
		if *taskCheck == "" || *varsFile == "" {
			fmt.Println("Error: task and vars are required for check.")
			checkCmd.Usage()
			os.Exit(1)
		}
		if err := checkVariables(*checkPath, *taskCheck, *varsFile); err != nil {
			exitf("%v", err)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func updateActivity(path, taskType, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a, ok := reg.Find(taskType)
	if !ok {
		return fmt.Errorf("no activity with task type %s", taskType)
	}

	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func checkVariables(registryPath, taskType, varsFile string) error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	data, err := os.ReadFile(varsFile)
	if err != nil {
		return fmt.Errorf("failed to read variables: %w", err)
	}
	var vars map[string]interface{}
	if err := json.Unmarshal(data, &vars); err != nil {
		return fmt.Errorf("variables are not a JSON object: %w", err)
	}

	result, err := reg.ValidateInput(taskType, vars)
	if err != nil {
		return err
	}
	if !result.Valid {
		for _, m := range result.Messages() {
			fmt.Printf("  - %s\n", m)
		}
		return fmt.Errorf("variables do not match the %s input schema", taskType)
	}

	fmt.Printf("Variables are valid for %s.\n", taskType)
	return nil
}

func exitf(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  export    Write the built-in product activity registry to a file
  update    Update one field of an activity, matched by task type
  validate  Lint a registry file
  check     Validate a job variables file against a task's input schema
  help      Show this help message

Examples:
  registry-updater export -path configs/activity-registry.json
  registry-updater update -task score-product -field timeout -value 15s
  registry-updater validate -path configs/activity-registry.json
  registry-updater check -task estimate-price -vars testdata/estimate.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
