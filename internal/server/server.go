package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/internal/request"
	"github.com/rohmanhakim/movie-info-server/internal/resolver"
	"github.com/rohmanhakim/movie-info-server/pkg/failure"
)

// Resolver is what the server needs from the title cache.
type Resolver interface {
	Resolve(ctx context.Context, title string, ok bool) (resolver.Resolution, failure.ClassifiedError)
}

/*
Server accepts raw TCP connections and answers each with exactly one
response:

 1. read one line, bounded by the read timeout
 2. parse the title out of it
 3. resolve it to a movie document or the default page
 4. write the framed reply and close

Request headers and bodies are never read. Connections are never reused.
*/
type Server struct {
	metadataSink metadata.MetadataSink
	resolver     Resolver
	param        ServerParam
	conns        sync.WaitGroup
}

func NewServer(metadataSink metadata.MetadataSink, resolver Resolver, param ServerParam) *Server {
	return &Server{
		metadataSink: metadataSink,
		resolver:     resolver,
		param:        param,
	}
}

// ListenAndServe binds the configured address and serves until ctx is
// cancelled. A bind failure is returned as a fatal *ServerError.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.param.addr)
	if err != nil {
		serverErr := &ServerError{
			Message: err.Error(),
			Addr:    s.param.addr,
			Cause:   ErrCauseBindFailure,
		}
		s.recordError("Server.ListenAndServe", serverErr)
		return serverErr
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then waits for
// the connections already accepted to finish. It returns nil after a
// shutdown and a fatal *ServerError if Accept fails for any other reason.
// Serve takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var shuttingDown atomic.Bool
	stop := context.AfterFunc(ctx, func() {
		shuttingDown.Store(true)
		ln.Close()
	})
	defer stop()

	addr := ln.Addr().String()
	s.metadataSink.RecordLifecycle("listening", []metadata.Attribute{
		metadata.NewAttr(metadata.AttrAddr, addr),
		metadata.NewAttr(metadata.AttrMessage, string(s.param.responseMode)),
	})

	// in-flight requests finish even after shutdown starts
	connCtx := context.WithoutCancel(ctx)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if shuttingDown.Load() {
				s.conns.Wait()
				s.metadataSink.RecordLifecycle("stopped", []metadata.Attribute{
					metadata.NewAttr(metadata.AttrAddr, addr),
				})
				return nil
			}
			ln.Close()
			serverErr := &ServerError{
				Message: err.Error(),
				Addr:    addr,
				Cause:   ErrCauseAcceptFailure,
			}
			s.recordError("Server.Serve", serverErr)
			s.conns.Wait()
			return serverErr
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConn(connCtx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	startTime := time.Now()
	remoteAddr := conn.RemoteAddr().String()

	if s.param.readTimeout > 0 {
		_ = conn.SetDeadline(startTime.Add(s.param.readTimeout))
	}

	var resp Response
	line, err := readRequestLine(bufio.NewReaderSize(conn, maxRequestLine))
	var parseErr *request.ParseError
	switch {
	case err == nil:
		resp = s.respond(ctx, remoteAddr, line)
	case errors.As(err, &parseErr):
		s.recordParseError(remoteAddr, line, parseErr)
		resp = errorResponse(err)
	default:
		// nothing usable arrived, so there is no one to answer
		if !errors.Is(err, io.EOF) {
			s.recordConnError(remoteAddr, "", err)
		}
		s.metadataSink.RecordRequest(remoteAddr, "", 0, 0, time.Since(startTime))
		return
	}

	if s.param.readTimeout > 0 {
		// resolving may outlast the read deadline; the write gets a fresh one
		_ = conn.SetWriteDeadline(time.Now().Add(s.param.readTimeout))
	}
	written, writeErr := conn.Write(frame(s.param.responseMode, resp))
	if writeErr != nil {
		s.recordConnError(remoteAddr, line, writeErr)
	} else {
		closeWriteAndDrain(conn)
	}
	s.metadataSink.RecordRequest(remoteAddr, line, resp.Status, written, time.Since(startTime))
}

func (s *Server) respond(ctx context.Context, remoteAddr string, line string) Response {
	title, ok, err := request.ParseTitle(line)
	if err != nil {
		var parseErr *request.ParseError
		if errors.As(err, &parseErr) {
			s.recordParseError(remoteAddr, line, parseErr)
		}
		return errorResponse(err)
	}

	res, resolveErr := s.resolver.Resolve(ctx, title, ok)
	if resolveErr != nil {
		return errorResponse(resolveErr)
	}
	return resolutionResponse(res)
}

// readRequestLine returns the first line without its terminator. A final
// line cut short by EOF still counts.
func readRequestLine(r *bufio.Reader) (string, error) {
	raw, err := r.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return request.Truncate(string(raw)), &request.ParseError{
			Message:   "request line exceeds limit",
			Retryable: false,
			Cause:     request.ErrCauseLineTooLong,
		}
	case err != nil && !(errors.Is(err, io.EOF) && len(raw) > 0):
		return "", err
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}

// closeWriteAndDrain half-closes conn and discards what the client still
// sends. Closing with unread request bytes makes the kernel send a reset,
// which can destroy a reply the client has not read yet.
func closeWriteAndDrain(conn net.Conn) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
	_ = conn.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, maxLingerBytes))
}

func (s *Server) recordError(action string, err *ServerError) {
	s.metadataSink.RecordError(
		time.Now(),
		"server",
		action,
		MapServerErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrAddr, err.Addr),
		},
	)
}

func (s *Server) recordParseError(remoteAddr string, line string, err *request.ParseError) {
	s.metadataSink.RecordError(
		time.Now(),
		"request",
		"ParseTitle",
		request.MapParseErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrRemoteAddr, remoteAddr),
			metadata.NewAttr(metadata.AttrRequestLine, line),
			metadata.NewAttr(metadata.AttrMessage, err.Message),
		},
	)
}

func (s *Server) recordConnError(remoteAddr string, line string, err error) {
	s.metadataSink.RecordError(
		time.Now(),
		"server",
		"Server.handleConn",
		metadata.CauseNetworkFailure,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrRemoteAddr, remoteAddr),
			metadata.NewAttr(metadata.AttrRequestLine, line),
		},
	)
}
