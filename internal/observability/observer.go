// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StandardObserver implements observability for all components
type StandardObserver struct {
	level         ObservabilityLevel
	writer        io.Writer
	logger        *zap.Logger
	runID         string
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	if writer == nil {
		writer = io.Discard
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(writer),
		zapcore.DebugLevel,
	)

	return &StandardObserver{
		level:  level,
		writer: writer,
		logger: zap.New(core),
		runID:  uuid.NewString(),
	}
}

// RunID identifies every record written during one invocation
func (o *StandardObserver) RunID() string {
	return o.runID
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		duration := time.Since(start)

		data := StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		}

		o.LogOperation(data)
	}
}

// LogOperation logs operation data. Debug level records every operation,
// metrics level only failures.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}
	if o.level == ObservabilityMetrics && data.Success {
		return
	}

	data.RequestID = o.runID

	fields := []zap.Field{
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.String("request_id", data.RequestID),
		zap.Bool("success", data.Success),
	}
	if data.FilePath != "" {
		fields = append(fields, zap.String("file_path", data.FilePath))
	}
	if data.DurationMs > 0 {
		fields = append(fields, zap.Int64("duration_ms", data.DurationMs))
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if len(data.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", data.Metadata))
	}

	if data.Success {
		o.logger.Debug("operation", fields...)
	} else {
		o.logger.Warn("operation", fields...)
	}
}

// LogError records a failed operation with its error
func (o *StandardObserver) LogError(component, operation, filePath string, err error) {
	if err == nil {
		return
	}
	o.LogOperation(StandardObservabilityData{
		Component: component,
		Operation: operation,
		FilePath:  filePath,
		Success:   false,
		Error:     err.Error(),
	})
}

// Sync flushes buffered records
func (o *StandardObserver) Sync() error {
	return o.logger.Sync()
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RequestID  string                 `json:"request_id"`
	FilePath   string                 `json:"file_path,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
