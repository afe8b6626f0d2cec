// Package metadatatest provides a recording metadata.MetadataSink for tests.
package metadatatest

import (
	"sync"
	"time"

	"github.com/rohmanhakim/movie-info-server/internal/metadata"
)

type ErrorEvent struct {
	ObservedAt  time.Time
	PackageName string
	Action      string
	Cause       metadata.ErrorCause
	Details     string
	Attrs       []metadata.Attribute
}

type FetchEvent struct {
	FetchURL    string
	HTTPStatus  int
	Duration    time.Duration
	ContentType string
	SizeByte    int
}

type CacheEvent struct {
	Title string
	Hit   bool
}

type RequestEvent struct {
	RemoteAddr   string
	RequestLine  string
	Status       int
	BytesWritten int
	Duration     time.Duration
}

// Sink records every event it receives. Safe for concurrent use.
type Sink struct {
	mu        sync.Mutex
	errors    []ErrorEvent
	fetches   []FetchEvent
	lookups   []CacheEvent
	requests  []RequestEvent
	lifecycle []string
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, ErrorEvent{
		ObservedAt:  observedAt,
		PackageName: packageName,
		Action:      action,
		Cause:       cause,
		Details:     details,
		Attrs:       attrs,
	})
}

func (s *Sink) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, sizeByte int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, FetchEvent{
		FetchURL:    fetchUrl,
		HTTPStatus:  httpStatus,
		Duration:    duration,
		ContentType: contentType,
		SizeByte:    sizeByte,
	})
}

func (s *Sink) RecordCacheLookup(title string, hit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, CacheEvent{Title: title, Hit: hit})
}

func (s *Sink) RecordRequest(remoteAddr string, requestLine string, status int, bytesWritten int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RequestEvent{
		RemoteAddr:   remoteAddr,
		RequestLine:  requestLine,
		Status:       status,
		BytesWritten: bytesWritten,
		Duration:     duration,
	})
}

func (s *Sink) RecordLifecycle(event string, attrs []metadata.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lifecycle = append(s.lifecycle, event)
}

func (s *Sink) Errors() []ErrorEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ErrorEvent(nil), s.errors...)
}

func (s *Sink) Fetches() []FetchEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FetchEvent(nil), s.fetches...)
}

func (s *Sink) Lookups() []CacheEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CacheEvent(nil), s.lookups...)
}

func (s *Sink) Requests() []RequestEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RequestEvent(nil), s.requests...)
}

func (s *Sink) Lifecycle() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lifecycle...)
}

var _ metadata.MetadataSink = (*Sink)(nil)
