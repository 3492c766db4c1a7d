package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GenerateTraceId returns a fresh trace id for an incoming request.
func GenerateTraceId() string {
	return uuid.New().String()
}

func logEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	default:
		entry.Info(message)
	}
}

func entryFor(ctx *gin.Context) *log.Entry {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)
	return log.WithFields(log.Fields{
		"traceId": traceId,
	})
}

// LogMessageWithFields logs a message enriched with the request trace id.
func LogMessageWithFields(ctx *gin.Context, level, message string) {
	logEntry(entryFor(ctx), level, message)
}

// LogMessageWithFieldsAndError logs a message plus the causing error.
func LogMessageWithFieldsAndError(ctx *gin.Context, level, message string, err error) {
	logEntry(entryFor(ctx).WithError(err), level, message)
}
