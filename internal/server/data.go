package server

import (
	"time"

	"github.com/rohmanhakim/movie-info-server/internal/config"
)

// maxRequestLine caps the bytes read while looking for the end of the
// request line.
const maxRequestLine = 8 << 10

// How long, and how much, to keep reading after the reply is written.
const (
	lingerTimeout  = 500 * time.Millisecond
	maxLingerBytes = 256 << 10
)

type ServerParam struct {
	addr         string
	readTimeout  time.Duration
	responseMode config.ResponseMode
}

func NewServerParam(addr string, readTimeout time.Duration, responseMode config.ResponseMode) ServerParam {
	return ServerParam{
		addr:         addr,
		readTimeout:  readTimeout,
		responseMode: responseMode,
	}
}

// ServerParamFromConfig picks the listener settings out of cfg.
func ServerParamFromConfig(cfg config.Config) ServerParam {
	return NewServerParam(cfg.Addr(), cfg.ReadTimeout(), cfg.ResponseMode())
}

func (p ServerParam) Addr() string {
	return p.addr
}

func (p ServerParam) ReadTimeout() time.Duration {
	return p.readTimeout
}

func (p ServerParam) ResponseMode() config.ResponseMode {
	return p.responseMode
}

// Response is a reply before framing.
type Response struct {
	Status      int
	ContentType string
	Body        string
	// Page marks the default search page, which legacy framing treats
	// differently from movie documents.
	Page bool
}

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// errorBody has the shape OMDb uses for failures, so the page script
// handles server-side errors the same way as unknown titles.
type errorBody struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}
