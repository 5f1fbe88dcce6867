package cli

import (
	"errors"

	"github.com/specialistvlad/visapack/internal/orchestrator"
)

// Exit codes returned by the visapack binary.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitPackFailed = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// exitCodeFor maps a pipeline error to the process exit code.
func exitCodeFor(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch orchestrator.Classify(err) {
	case orchestrator.KindNone:
		return ExitOK
	case orchestrator.KindValidation:
		return ExitUsage
	case orchestrator.KindValidationFailed:
		return ExitPackFailed
	}
	return ExitFailure
}
