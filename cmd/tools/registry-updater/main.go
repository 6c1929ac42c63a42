// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"estate-workers/internal/workers/catalog"
	"estate-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	generatePath := generateCmd.String("path", defaultRegistryPath, "Path to registry file")
	version := generateCmd.String("version", "1.0.0", "Registry version")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		generateCmd.Parse(os.Args[2:])
		reg := catalog.Registry(*version, time.Now())
		if err := registry.SaveRegistry(reg, *generatePath); err != nil {
			fmt.Printf("Error writing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d activities to %s\n", len(reg.Activities), *generatePath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validate(*validatePath); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	default:
		help()
	}
}

// validate checks the file on disk and compares it with the compiled workers.
func validate(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	missing, stale := reg.Diff(catalog.Registry("", time.Now()))
	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing task types: "+strings.Join(missing, ", "))
	}
	if len(stale) > 0 {
		problems = append(problems, "unknown task types: "+strings.Join(stale, ", "))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s (run generate)", strings.Join(problems, "; "))
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  generate  Write the activity registry from the compiled workers
  validate  Check the registry file against the compiled workers

Examples:
  registry-updater generate -path configs/activity-registry.json
  registry-updater validate -path configs/activity-registry.json`)
}
