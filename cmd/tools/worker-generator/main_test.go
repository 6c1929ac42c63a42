package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"estate-workers/internal/workers/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerData_FromCatalog(t *testing.T) {
	act, ok := findActivity(catalog.Registry("1.0.0", time.Now()), "add-upcoming-project")
	require.True(t, ok)

	data := newWorkerData(act)

	assert.Equal(t, "addupcomingproject", data.PackageName)
	assert.Equal(t, "add-upcoming-project", data.TaskType)
	assert.Contains(t, data.Required, "title")

	var status *Field
	for i := range data.Fields {
		if data.Fields[i].Name == "status" {
			status = &data.Fields[i]
		}
	}
	require.NotNil(t, status)
	assert.Equal(t, "Status", status.GoName)
	assert.Equal(t, "string", status.GoType)
	assert.Contains(t, status.Enum, "upcoming")
}

func TestFindActivity_Unknown(t *testing.T) {
	_, ok := findActivity(catalog.Registry("1.0.0", time.Now()), "captcha-verify")
	assert.False(t, ok)
}

func TestGoTypeFromJSONType(t *testing.T) {
	assert.Equal(t, "string", goTypeFromJSONType("string"))
	assert.Equal(t, "int", goTypeFromJSONType("integer"))
	assert.Equal(t, "float64", goTypeFromJSONType("number"))
	assert.Equal(t, "bool", goTypeFromJSONType("boolean"))
	assert.Equal(t, "[]interface{}", goTypeFromJSONType("array"))
	assert.Equal(t, "interface{}", goTypeFromJSONType(""))
}

func TestGenerate_WritesScaffold(t *testing.T) {
	act, ok := findActivity(catalog.Registry("1.0.0", time.Now()), "recent-notifications")
	require.True(t, ok)
	dir := filepath.Join(t.TempDir(), "notification", act.ID)

	written, err := generate(dir, newWorkerData(act), false)
	require.NoError(t, err)
	assert.Len(t, written, len(templates))

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package recentnotifications")
	assert.Contains(t, string(models), "Limit int `json:\"limit,omitempty\"`")

	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `const TaskType = "recent-notifications"`)

	_, err = generate(dir, newWorkerData(act), false)
	assert.Error(t, err, "existing files are kept without -force")

	_, err = generate(dir, newWorkerData(act), true)
	assert.NoError(t, err)
}
