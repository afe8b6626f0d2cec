package server

import (
	"fmt"

	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/pkg/failure"
)

type ServerErrorCause string

const (
	ErrCauseBindFailure   = "bind failure"
	ErrCauseAcceptFailure = "accept failure"
)

// ServerError means the listener is unusable. It always ends the process.
type ServerError struct {
	Message string
	Addr    string
	Cause   ServerErrorCause
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s on %s: %s", e.Cause, e.Addr, e.Message)
}

func (e *ServerError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func MapServerErrorToMetadataCause(err *ServerError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseBindFailure, ErrCauseAcceptFailure:
		return metadata.CauseListenerFailure
	default:
		return metadata.CauseUnknown
	}
}
