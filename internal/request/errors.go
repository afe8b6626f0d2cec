package request

import (
	"fmt"

	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/pkg/failure"
)

type ParseErrorCause string

const (
	ErrCauseMalformedParam = "parameter without '='"
	ErrCauseEmptyLine      = "empty request line"
	ErrCauseLineTooLong    = "request line too long"
)

type ParseError struct {
	Message   string
	Retryable bool
	Cause     ParseErrorCause
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Cause)
}

// A malformed request only affects its own connection.
func (e *ParseError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *ParseError) IsRetryable() bool {
	return e.Retryable
}

// MapParseErrorToMetadataCause maps parser-local error semantics
// to the canonical metadata.ErrorCause table.
func MapParseErrorToMetadataCause(err *ParseError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseMalformedParam, ErrCauseEmptyLine, ErrCauseLineTooLong:
		return metadata.CauseRequestMalformed
	default:
		return metadata.CauseUnknown
	}
}
