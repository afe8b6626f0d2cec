package failure_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rohmanhakim/movie-info-server/pkg/failure"
	"github.com/stretchr/testify/assert"
)

type stubError struct {
	severity failure.Severity
}

func (s *stubError) Error() string { return "stub" }
func (s *stubError) Severity() failure.Severity { return s.severity }

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "fatal", err: &stubError{severity: failure.SeverityFatal}, want: true},
		{name: "recoverable", err: &stubError{severity: failure.SeverityRecoverable}, want: false},
		{name: "wrapped fatal", err: fmt.Errorf("serve: %w", &stubError{severity: failure.SeverityFatal}), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.IsFatal(tt.err))
		})
	}
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "fatal", failure.SeverityFatal.String())
	assert.Equal(t, "recoverable", failure.SeverityRecoverable.String())
	assert.Equal(t, "unknown", failure.Severity(42).String())
}
