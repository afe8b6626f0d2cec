package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/pkg/failure"
	"github.com/rohmanhakim/movie-info-server/pkg/limiter"
	"github.com/rohmanhakim/movie-info-server/pkg/urlutil"
)

/*
OMDbProvider

Responsibilities:
- Build the OMDb request URL with the title substituted verbatim
- Space out calls to the OMDb host through the rate limiter
- Classify transport failures and non-2xx statuses
- Report every call to the metadata sink with the API key redacted

2xx bodies are returned untouched, including OMDb's own
{"Response":"False",...} documents. Nothing is retried.
*/
type OMDbProvider struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	param        OMDbParam
	rateLimiter  limiter.RateLimiter
}

// NewOMDbProvider creates a provider with its own HTTP client bounded by
// the param's timeout. rateLimiter may be nil.
func NewOMDbProvider(
	metadataSink metadata.MetadataSink,
	param OMDbParam,
	rateLimiter limiter.RateLimiter,
) *OMDbProvider {
	return NewOMDbProviderWithClient(
		metadataSink,
		param,
		rateLimiter,
		&http.Client{Timeout: param.timeout},
	)
}

// NewOMDbProviderWithClient creates a provider with a custom HTTP client.
// This is useful for testing.
func NewOMDbProviderWithClient(
	metadataSink metadata.MetadataSink,
	param OMDbParam,
	rateLimiter limiter.RateLimiter,
	httpClient *http.Client,
) *OMDbProvider {
	return &OMDbProvider{
		metadataSink: metadataSink,
		httpClient:   httpClient,
		param:        param,
		rateLimiter:  rateLimiter,
	}
}

// RequestURL returns the OMDb URL queried for encodedTitle.
// The title is passed through as-is except for '#', which would otherwise
// start a fragment and cut the query short.
func (p *OMDbProvider) RequestURL(encodedTitle string) url.URL {
	u := p.param.baseURL
	query := u.RawQuery
	if p.param.apiKey != "" {
		query = appendQuery(query, "apikey="+url.QueryEscape(p.param.apiKey))
	}
	u.RawQuery = appendQuery(query, "t="+strings.ReplaceAll(encodedTitle, "#", "%23"))
	return u
}

func appendQuery(query, pair string) string {
	if query == "" {
		return pair
	}
	return query + "&" + pair
}

func (p *OMDbProvider) FetchMovieData(ctx context.Context, encodedTitle string) (string, failure.ClassifiedError) {
	callerMethod := "OMDbProvider.FetchMovieData"
	requestURL := p.RequestURL(encodedTitle)
	loggedURL := urlutil.Redact(requestURL, "apikey")
	host := requestURL.Host

	if err := p.waitTurn(ctx, host); err != nil {
		p.recordError(callerMethod, encodedTitle, err)
		return "", err
	}

	startTime := time.Now()
	body, statusCode, contentType, err := p.performFetch(ctx, requestURL)
	p.metadataSink.RecordFetch(loggedURL.String(), statusCode, time.Since(startTime), contentType, len(body))

	if err != nil {
		p.recordError(callerMethod, encodedTitle, err)
		return "", err
	}
	return body, nil
}

// waitTurn reserves the next slot for host and blocks until it arrives.
// A cancelled wait still consumes its slot.
func (p *OMDbProvider) waitTurn(ctx context.Context, host string) *ProviderError {
	if p.rateLimiter == nil {
		return nil
	}
	delay := p.rateLimiter.Reserve(host)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return &ProviderError{
			Message:   fmt.Sprintf("cancelled while waiting %v for rate limiter: %v", delay, ctx.Err()),
			Retryable: true,
			Cause:     ErrCauseTimeout,
		}
	}
}

func (p *OMDbProvider) performFetch(ctx context.Context, requestURL url.URL) (string, int, string, *ProviderError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return "", 0, "", &ProviderError{
			Message:   fmt.Sprintf("failed to create request: %v", unwrapURLError(err)),
			Retryable: false,
			Cause:     ErrCauseRequestBuild,
		}
	}
	req.Header.Set("User-Agent", p.param.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		cause := ProviderErrorCause(ErrCauseNetworkFailure)
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			cause = ErrCauseTimeout
		}
		return "", 0, "", &ProviderError{
			Message:   fmt.Sprintf("request failed: %v", unwrapURLError(err)),
			Retryable: true,
			Cause:     cause,
		}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return "", resp.StatusCode, contentType, &ProviderError{
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Retryable:  true,
			Cause:      ErrCauseReadResponseBody,
			StatusCode: resp.StatusCode,
		}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if p.rateLimiter != nil {
			p.rateLimiter.ResetBackoff(requestURL.Host)
		}
		return string(content), resp.StatusCode, contentType, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		if p.rateLimiter != nil {
			p.rateLimiter.Backoff(requestURL.Host)
		}
		return string(content), resp.StatusCode, contentType, &ProviderError{
			Message:    upstreamMessage("rate limited (429)", content),
			Retryable:  true,
			Cause:      ErrCauseRateLimited,
			StatusCode: resp.StatusCode,
		}

	default:
		return string(content), resp.StatusCode, contentType, &ProviderError{
			Message:    upstreamMessage(fmt.Sprintf("upstream status %d", resp.StatusCode), content),
			Retryable:  resp.StatusCode >= 500,
			Cause:      ErrCauseUpstreamStatus,
			StatusCode: resp.StatusCode,
		}
	}
}

func (p *OMDbProvider) recordError(callerMethod string, encodedTitle string, err *ProviderError) {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrTitle, encodedTitle),
		metadata.NewAttr(metadata.AttrMessage, err.Message),
	}
	if err.StatusCode != 0 {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrHTTPStatus, fmt.Sprintf("%d", err.StatusCode)))
	}
	p.metadataSink.RecordError(
		time.Now(),
		"provider",
		callerMethod,
		MapProviderErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}

// upstreamMessage appends OMDb's own error text when the body carries one.
func upstreamMessage(prefix string, body []byte) string {
	var reply omdbErrorBody
	if err := json.Unmarshal(body, &reply); err == nil && reply.Error != "" {
		return prefix + ": " + reply.Error
	}
	return prefix
}

// unwrapURLError drops the *url.Error wrapper, whose message embeds the
// full request URL and with it the API key.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
