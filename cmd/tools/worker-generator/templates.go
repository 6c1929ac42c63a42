package main

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"validation.go":   validationTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

const configTemplate = `package {{ .PackageName }}

import (
	"time"

	"estate-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{Timeout: 15 * time.Second}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{- range .Fields }}
	{{ .GoName }} {{ .GoType }} ` + "`json:\"{{ .Name }},omitempty\"`" + `
{{- end }}
}

type Output struct {
	Success bool ` + "`json:\"success\"`" + `
}
`

const validationTemplate = `package {{ .PackageName }}

import "estate-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
{{- range .Fields }}
			{{ quote .Name }}: {Type: {{ quote .JSONType }}{{ if .Enum }}, Enum: []string{ {{- range $i, $e := .Enum }}{{ if $i }}, {{ end }}{{ quote $e }}{{ end -}} }{{ end }}},
{{- end }}
		},
		Required:             []string{ {{- range $i, $r := .Required }}{{ if $i }}, {{ end }}{{ quote $r }}{{ end -}} },
		AdditionalProperties: true,
	}
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"strings"
	"time"

	"estate-workers/internal/common/camunda"
	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/metrics"
	"estate-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// TaskType: {{ .Description }}
const TaskType = {{ quote .TaskType }}

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
				h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
				return
			}
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	vars, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewValidationError("parse job variables: " + err.Error())
	}
	if result := validation.ValidateInput(vars, GetInputSchema()); !result.Valid {
		return nil, apperrors.NewValidationError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		return nil, apperrors.NewValidationError("decode job variables: " + err.Error())
	}
	return &input, nil
}

// Execute holds the business logic.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{Success: true}, nil
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-workers/internal/common/config"
	"estate-workers/internal/common/logger"
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(LoadConfig(config.WorkerConfig{}), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestGetInputSchema(t *testing.T) {
	schema := GetInputSchema()
	for _, field := range schema.Required {
		assert.Contains(t, schema.Properties, field)
	}
}
`
