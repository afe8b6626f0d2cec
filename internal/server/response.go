package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rohmanhakim/movie-info-server/internal/config"
	"github.com/rohmanhakim/movie-info-server/internal/provider"
	"github.com/rohmanhakim/movie-info-server/internal/request"
	"github.com/rohmanhakim/movie-info-server/internal/resolver"
	"github.com/rohmanhakim/movie-info-server/pkg/hashutil"
)

// legacyPageHeader is the only status line legacy mode ever writes.
const legacyPageHeader = "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n"

func resolutionResponse(res resolver.Resolution) Response {
	if res.Kind == resolver.KindPage {
		return Response{Status: http.StatusOK, ContentType: contentTypeHTML, Body: res.Body, Page: true}
	}
	return Response{Status: http.StatusOK, ContentType: contentTypeJSON, Body: res.Body}
}

// errorResponse picks the status for a failed request and renders an
// OMDb-shaped error document for it.
func errorResponse(err error) Response {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var parseErr *request.ParseError
	var providerErr *provider.ProviderError
	var resolveErr *resolver.ResolveError
	switch {
	case errors.As(err, &parseErr):
		status = http.StatusBadRequest
		if parseErr.Cause == request.ErrCauseLineTooLong {
			status = http.StatusRequestURITooLong
		}
		message = "Bad request: " + parseErr.Message
	case errors.As(err, &providerErr):
		status = http.StatusBadGateway
		message = "Movie provider unavailable: " + string(providerErr.Cause)
	case errors.As(err, &resolveErr):
		status = http.StatusServiceUnavailable
		message = "Request abandoned: " + string(resolveErr.Cause)
	}

	body, _ := json.Marshal(errorBody{Response: "False", Error: message})
	return Response{Status: status, ContentType: contentTypeJSON, Body: string(body)}
}

func frame(mode config.ResponseMode, resp Response) []byte {
	if mode == config.ResponseModeLegacy {
		return frameLegacy(resp)
	}
	return frameHTTP(resp)
}

// frameHTTP writes a complete HTTP/1.1 response. The connection is
// always closed afterwards.
func frameHTTP(resp Response) []byte {
	body := []byte(resp.Body)

	var b strings.Builder
	b.Grow(len(body) + 192)
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", resp.Status, http.StatusText(resp.Status))
	b.WriteString("Content-Type: " + resp.ContentType + "\r\n")
	b.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\r\n")
	b.WriteString("ETag: " + hashutil.ETag(body) + "\r\n")
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")
	b.Write(body)
	return []byte(b.String())
}

// frameLegacy reproduces the original wire format: the page gets a bare
// status line and content type, everything else goes out as one line.
func frameLegacy(resp Response) []byte {
	if resp.Page {
		return []byte(legacyPageHeader + resp.Body + "\n")
	}
	return []byte(resp.Body + "\n")
}
