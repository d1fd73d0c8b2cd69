package pipeline

import "fmt"

// ErrorType classifies a stage failure.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeDataQuality  ErrorType = "data_quality"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// StageError is a stage failure with enough context to log and report.
type StageError struct {
	Type    ErrorType `json:"type"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError reports a stage whose inputs are missing or unusable.
func NewValidationError(stage, message string) *StageError {
	return &StageError{Type: ErrorTypeValidation, Stage: stage, Message: message}
}

// NewExecutionError wraps a failure from inside a running stage.
func NewExecutionError(stage string, cause error) *StageError {
	return &StageError{
		Type:    ErrorTypeExecution,
		Stage:   stage,
		Message: "stage execution failed",
		Cause:   cause,
	}
}

// NewDataQualityError reports a strict-mode quality check failure.
func NewDataQualityError(stage string, cause error) *StageError {
	return &StageError{
		Type:    ErrorTypeDataQuality,
		Stage:   stage,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// NewCancellationError reports a run cancelled through its context.
func NewCancellationError(stage string) *StageError {
	return &StageError{Type: ErrorTypeCancellation, Stage: stage, Message: "run was cancelled"}
}
