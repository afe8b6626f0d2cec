package resolver

import (
	"fmt"

	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/pkg/failure"
)

type ResolveErrorCause string

const (
	ErrCauseCancelled    = "request cancelled"
	ErrCauseUnclassified = "unclassified provider failure"
)

type ResolveError struct {
	Message   string
	Retryable bool
	Cause     ResolveErrorCause
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve error: %s", e.Cause)
}

func (e *ResolveError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *ResolveError) IsRetryable() bool {
	return e.Retryable
}

func MapResolveErrorToMetadataCause(err *ResolveError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseCancelled:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
