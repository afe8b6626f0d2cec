package metadata

import (
	"context"
	"log/slog"
	"time"
)

/*
Metadata Collected
- Upstream fetch URLs (secrets redacted), status codes, durations
- Cache hits and misses per title
- One record per served connection
- Classified errors

Metadata is write-only.
No component may read metadata to influence request handling.
*/

/*
Recorder captures structured server events and writes them through slog.
It must not:
- perform I/O decisions
- affect control flow
*/
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	return &Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	args := []slog.Attr{
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("error", errorString),
	}
	args = append(args, toSlogAttrs(attrs)...)
	r.logger.LogAttrs(context.Background(), slog.LevelError, "error", args...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	sizeByte int,
) {
	r.logger.LogAttrs(context.Background(), slog.LevelInfo, "fetch",
		slog.String(string(AttrURL), fetchUrl),
		slog.Int(string(AttrHTTPStatus), httpStatus),
		slog.Duration("duration", duration),
		slog.String("content_type", contentType),
		slog.Int("size_bytes", sizeByte),
	)
}

func (r *Recorder) RecordCacheLookup(title string, hit bool) {
	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "cache lookup",
		slog.String(string(AttrTitle), title),
		slog.Bool("hit", hit),
	)
}

func (r *Recorder) RecordRequest(
	remoteAddr string,
	requestLine string,
	status int,
	bytesWritten int,
	duration time.Duration,
) {
	r.logger.LogAttrs(context.Background(), slog.LevelInfo, "request",
		slog.String(string(AttrRemoteAddr), remoteAddr),
		slog.String(string(AttrRequestLine), requestLine),
		slog.Int("status", status),
		slog.Int("bytes", bytesWritten),
		slog.Duration("duration", duration),
	)
}

func (r *Recorder) RecordLifecycle(event string, attrs []Attribute) {
	r.logger.LogAttrs(context.Background(), slog.LevelInfo, event, toSlogAttrs(attrs)...)
}

func toSlogAttrs(attrs []Attribute) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, slog.String(string(a.Key), a.Value))
	}
	return out
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		sizeByte int,
	)

	RecordCacheLookup(title string, hit bool)

	RecordRequest(
		remoteAddr string,
		requestLine string,
		status int,
		bytesWritten int,
		duration time.Duration,
	)

	RecordLifecycle(event string, attrs []Attribute)
}
