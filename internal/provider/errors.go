package provider

import (
	"fmt"

	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/pkg/failure"
)

type ProviderErrorCause string

const (
	ErrCauseRequestBuild     = "failed to build request"
	ErrCauseTimeout          = "timeout"
	ErrCauseNetworkFailure   = "network issues"
	ErrCauseRateLimited      = "too many requests"
	ErrCauseUpstreamStatus   = "unexpected upstream status"
	ErrCauseReadResponseBody = "failed to read response body"
)

type ProviderError struct {
	Message   string
	Retryable bool
	Cause     ProviderErrorCause
	// HTTP status returned by the upstream, 0 when none was received.
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s", e.Cause)
}

// A provider failure only fails the request that triggered it.
func (e *ProviderError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *ProviderError) IsRetryable() bool {
	return e.Retryable
}

// MapProviderErrorToMetadataCause maps provider-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func MapProviderErrorToMetadataCause(err *ProviderError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout, ErrCauseNetworkFailure, ErrCauseReadResponseBody:
		return metadata.CauseNetworkFailure
	case ErrCauseRateLimited, ErrCauseUpstreamStatus:
		return metadata.CauseUpstreamRejected
	default:
		return metadata.CauseUnknown
	}
}
