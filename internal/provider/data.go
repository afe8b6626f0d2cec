package provider

import (
	"net/url"
	"time"
)

// OMDbParam holds what the OMDb provider needs to address the API.
type OMDbParam struct {
	baseURL   url.URL
	apiKey    string
	userAgent string
	timeout   time.Duration
}

func NewOMDbParam(baseURL url.URL, apiKey string, userAgent string, timeout time.Duration) OMDbParam {
	return OMDbParam{
		baseURL:   baseURL,
		apiKey:    apiKey,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

func (p OMDbParam) BaseURL() url.URL {
	return p.baseURL
}

func (p OMDbParam) APIKey() string {
	return p.apiKey
}

func (p OMDbParam) UserAgent() string {
	return p.userAgent
}

func (p OMDbParam) Timeout() time.Duration {
	return p.timeout
}

// omdbErrorBody is the part of an OMDb reply that explains a failure,
// e.g. {"Response":"False","Error":"Invalid API key!"}.
type omdbErrorBody struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// maxDocumentSize bounds how much of an upstream body is read.
const maxDocumentSize = 1 << 20
