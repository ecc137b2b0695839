package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"playercorr/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Stage   string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	prefix := e.Message
	if e.Stage != "" {
		prefix = fmt.Sprintf("[%s] %s", e.Stage, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Cause)
	}
	return prefix
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline stages reported in AppError.Stage
const (
	StageConfig     = "config"
	StageLoad       = "load"
	StageFilter     = "filter"
	StageStatistics = "statistics"
	StageRender     = "render"
	StageExport     = "export"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Stage:   appErr.Stage,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// AtStage attaches the pipeline stage to an error, keeping the code
func AtStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		cp := *appErr
		cp.Stage = stage
		return &cp
	}
	return &AppError{
		Code:    codeFor(err),
		Stage:   stage,
		Message: stage + " failed",
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// GetStage returns the failing stage if known
func GetStage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Stage
	}
	return ""
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDataFormat       = "DATA_FORMAT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeDegenerateInput  = "DEGENERATE_INPUT"
	CodeRenderFailed     = "RENDER_FAILED"
	CodeExportFailed     = "EXPORT_FAILED"
	CodeCancelled        = "CANCELLED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// codeFor maps domain sentinels onto error codes
func codeFor(err error) string {
	switch {
	case core.IsDataFormatError(err):
		return CodeDataFormat
	case core.IsInsufficientDataError(err):
		return CodeInsufficientData
	case core.IsDegenerateInputError(err):
		return CodeDegenerateInput
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return CodeCancelled
	default:
		return CodeInternalError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return &AppError{Code: CodeConfigInvalid, Stage: StageConfig, Message: message}
}

func DataFormat(message string, cause error) *AppError {
	return &AppError{Code: CodeDataFormat, Stage: StageLoad, Message: message, Cause: cause}
}

func InsufficientData(have, need int) *AppError {
	return &AppError{
		Code:    CodeInsufficientData,
		Stage:   StageFilter,
		Message: "filtered dataset too small",
		Cause:   core.NewInsufficientDataError(have, need),
	}
}

func DegenerateInput(message string, cause error) *AppError {
	return &AppError{Code: CodeDegenerateInput, Stage: StageStatistics, Message: message, Cause: cause}
}

func RenderFailed(artifact string, cause error) *AppError {
	return &AppError{
		Code:    CodeRenderFailed,
		Stage:   StageRender,
		Message: fmt.Sprintf("failed to render %s", artifact),
		Cause:   cause,
	}
}

func ExportFailed(target string, cause error) *AppError {
	return &AppError{
		Code:    CodeExportFailed,
		Stage:   StageExport,
		Message: fmt.Sprintf("failed to export %s", target),
		Cause:   cause,
	}
}
