package orchestrator

import (
	"context"
	"errors"

	"github.com/specialistvlad/visapack/internal/model"
)

// ErrProvidersUnreachable is returned when every provider call of a run ended
// in an error or a timeout.
var ErrProvidersUnreachable = errors.New("all providers unreachable")

// Kind is the coarse class of a run error, used by the outer layers to pick
// exit codes and HTTP statuses.
type Kind string

const (
	KindNone                  Kind = ""
	KindValidation            Kind = "validation"
	KindGenerationUnavailable Kind = "generation_unavailable"
	KindProvidersUnreachable  Kind = "providers_unreachable"
	KindValidationFailed      Kind = "validation_failed"
	KindCancelled             Kind = "cancelled"
	KindInternal              Kind = "internal"
)

// Classify maps an error returned by Run to its Kind.
func Classify(err error) Kind {
	var (
		validation  *model.ValidationError
		primary     *model.InvalidPrimaryDestinationError
		unavailable *model.GenerationUnavailableError
		failed      *model.ValidationFailedError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &validation), errors.As(err, &primary), errors.Is(err, model.ErrEmptyDestinationList):
		return KindValidation
	case errors.As(err, &unavailable):
		return KindGenerationUnavailable
	case errors.Is(err, ErrProvidersUnreachable):
		return KindProvidersUnreachable
	case errors.As(err, &failed):
		return KindValidationFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindInternal
	}
}
