// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"estate-workers/internal/common/validation"
	"estate-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name        string
	PackageName string
	TaskType    string
	Description string
	ErrorCodes  []string
	Timeout     string
	Fields      []Field
	Required    []string
}

// Field is one input variable of the generated worker.
type Field struct {
	Name     string
	GoName   string
	GoType   string
	JSONType string
	Enum     []string
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType string) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// upperFirst makes the first character uppercase
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func packageName(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

func fieldsFromSchema(schema *validation.JSONSchema) []Field {
	if schema == nil {
		return nil
	}
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		prop := schema.Properties[name]
		fields = append(fields, Field{
			Name:     name,
			GoName:   upperFirst(name),
			GoType:   goTypeFromJSONType(prop.Type),
			JSONType: prop.Type,
			Enum:     prop.Enum,
		})
	}
	return fields
}

func newWorkerData(act registry.Activity) WorkerData {
	data := WorkerData{
		Name:        act.DisplayName,
		PackageName: packageName(act.ID),
		TaskType:    act.TaskType,
		Description: act.Description,
		ErrorCodes:  act.ErrorCodes,
		Timeout:     act.Timeout,
		Fields:      fieldsFromSchema(act.InputSchema),
	}
	if act.InputSchema != nil {
		data.Required = act.InputSchema.Required
	}
	return data
}

func findActivity(reg *registry.ActivityRegistry, id string) (registry.Activity, bool) {
	for _, act := range reg.Activities {
		if act.ID == id {
			return act, true
		}
	}
	return registry.Activity{}, false
}

// generate renders the scaffold into dir and returns the written paths.
func generate(dir string, data WorkerData, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	funcMap := template.FuncMap{
		"quote": func(s string) string { return fmt.Sprintf("%q", s) },
		"join":  strings.Join,
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, filename := range names {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil && !overwrite {
			return written, fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}

		tmpl, err := template.New(filename).Funcs(funcMap).Parse(templates[filename])
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", filename, err)
		}

		file, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("create %s: %w", path, err)
		}
		err = tmpl.Execute(file, data)
		file.Close()
		if err != nil {
			return written, fmt.Errorf("render %s: %w", filename, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., delete-upcoming-project)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>] [-force]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	act, ok := findActivity(reg, *activity)
	if !ok {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, strings.ToLower(act.Category), act.ID)
	written, err := generate(workerDir, newWorkerData(act), *force)
	for _, path := range written {
		fmt.Printf("generated %s\n", path)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nWorker scaffold generated at %s\n", workerDir)
	fmt.Println("Next steps:")
	fmt.Println("  1. Implement Execute in handler.go")
	fmt.Println("  2. Add the activity to internal/workers/catalog")
	fmt.Println("  3. Register the worker in cmd/worker-manager/workers.go")
	fmt.Println("  4. Add configuration to configs/config.yaml")
}
