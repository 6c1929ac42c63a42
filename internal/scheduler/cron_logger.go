package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"estate-workers/internal/common/logger"
)

type cronLogger struct {
	log logger.Logger
}

// NewCronLogger routes cron's key/value logging into a structured logger.
func NewCronLogger(log logger.Logger) cron.Logger {
	return cronLogger{log: log}
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug("cron: "+msg, fieldsOf(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := fieldsOf(keysAndValues)
	fields["error"] = err.Error()
	c.log.Error("cron: "+msg, fields)
}

func fieldsOf(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
