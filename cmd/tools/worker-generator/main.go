// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"dropship-workers/pkg/registry"
)

func main() {
	taskType := flag.String("task", "", "Task type from the registry (e.g., score-product)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "", "Registry overlay file (empty uses the built-in registry)")
	force := flag.Bool("force", false, "Overwrite files that already exist")
	flag.Parse()

	if *taskType == "" {
		fmt.Println("Usage: worker-generator -task <task-type> [-output <dir>] [-registry <path>] [-force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/worker-generator -task archive-product -registry configs/activity-registry.json")
		os.Exit(1)
	}

	reg, err := registry.Load(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}

	activity, ok := reg.Find(*taskType)
	if !ok {
		fmt.Printf("Task type '%s' not found in registry\n", *taskType)
		os.Exit(1)
	}

	data := newWorkerData(activity)
	files, err := render(data)
	if err != nil {
		fmt.Printf("Error rendering worker: %v\n", err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, activity.Category, activity.TaskType)
	written, err := writeWorker(workerDir, files, *force)
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	if err != nil {
		fmt.Printf("Error writing worker: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nWorker scaffold ready at %s\n", workerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Add registry.%s and implement Execute\n", data.ConstName)
	fmt.Printf("  2. Register the handler in cmd/worker-manager/main.go\n")
	fmt.Printf("  3. Add a workers.%s section to configs/config.yaml\n", activity.TaskType)
}
