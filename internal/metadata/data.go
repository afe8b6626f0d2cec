package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used to choose a response status or to decide
	   whether a result is cached.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.

# CauseNetworkFailure

Meaning:
  - Failure caused by network transport or remote availability.

Examples:
  - DNS resolution failures
  - Connection resets or client timeouts while calling the movie API
  - Client hanging up before sending a request line

# CauseUpstreamRejected

Meaning:
  - The movie API answered, but not with a usable document.

Examples:
  - HTTP 401 for an invalid API key
  - HTTP 429 throttling
  - HTTP 5xx

# CauseRequestMalformed

Meaning:
  - The inbound request line could not be interpreted.

Examples:
  - Query parameter without "="

# CauseListenerFailure

Meaning:
  - The listening socket could not be bound or stopped accepting.

Examples:
  - Port already in use
  - Accept returning a non-temporary error
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseUpstreamRejected
	CauseRequestMalformed
	CauseListenerFailure
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseUpstreamRejected:
		return "upstream_rejected"
	case CauseRequestMalformed:
		return "request_malformed"
	case CauseListenerFailure:
		return "listener_failure"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL         AttributeKey = "url"
	AttrHost        AttributeKey = "host"
	AttrTitle       AttributeKey = "title"
	AttrAddr        AttributeKey = "addr"
	AttrRemoteAddr  AttributeKey = "remote_addr"
	AttrRequestLine AttributeKey = "request_line"
	AttrHTTPStatus  AttributeKey = "http_status"
	AttrMessage     AttributeKey = "message"
)
