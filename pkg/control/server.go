package control

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/sourcegraph/jsonrpc2"

	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/store/storedefs"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
	errNoJournal = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInternalError, Message: "no journal"}
)

// Server serves the control methods for one signals.Signals.
type Server struct {
	sigs    signals.Signals
	journal storedefs.Store
}

// NewServer creates a Server acting on sigs. If journal is not nil, every
// applied action is recorded in it.
func NewServer(sigs signals.Signals, journal storedefs.Store) *Server {
	return &Server{sigs, journal}
}

// Serve accepts connections on l and serves each of them until ctx is done or
// l is closed. It closes l and all the connections before returning.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()
	var conns []*jsonrpc2.Conn
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()
	for {
		rwc, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		logger.Println("accepted connection")
		conns = append(pruneClosed(conns), s.newConn(ctx, rwc))
	}
}

func pruneClosed(conns []*jsonrpc2.Conn) []*jsonrpc2.Conn {
	alive := conns[:0]
	for _, conn := range conns {
		select {
		case <-conn.DisconnectNotify():
		default:
			alive = append(alive, conn)
		}
	}
	return alive
}

// ServeConn serves a single connection in the background. The returned
// channel is closed when the connection is closed.
func (s *Server) ServeConn(ctx context.Context, rwc io.ReadWriteCloser) <-chan struct{} {
	return s.newConn(ctx, rwc).DisconnectNotify()
}

func (s *Server) newConn(ctx context.Context, rwc io.ReadWriteCloser) *jsonrpc2.Conn {
	return jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		s.handler())
}

func (s *Server) handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		MethodSignal:  s.signal,
		MethodStatus:  s.status,
		MethodHistory: s.history,
	})
}

type method func(context.Context, json.RawMessage) (any, error)

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *Server) signal(_ context.Context, rawParams json.RawMessage) (any, error) {
	// A pointer, so that a missing action is not taken as the zero Action.
	var params struct {
		Action *signals.Action `json:"action"`
	}
	if !decodeParams(rawParams, &params) || params.Action == nil {
		return nil, errInvalidParams
	}
	action := *params.Action
	switch action {
	case signals.Interrupt:
		s.sigs.Trigger()
	case signals.Reset:
		s.sigs.Reset()
	}
	logger.Printf("applied %s", action)
	if s.journal != nil {
		if _, err := s.journal.AddAction(action); err != nil {
			// The action has taken effect even if it could not be recorded.
			logger.Printf("failed to journal %s: %v", action, err)
		}
	}
	return s.currentStatus(), nil
}

func (s *Server) status(context.Context, json.RawMessage) (any, error) {
	return s.currentStatus(), nil
}

func (s *Server) history(_ context.Context, rawParams json.RawMessage) (any, error) {
	var params HistoryParams
	if !decodeParams(rawParams, &params) {
		return nil, errInvalidParams
	}
	if s.journal == nil {
		return nil, errNoJournal
	}
	entries, err := s.journal.Actions(params.From, params.Upto)
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
	if entries == nil {
		entries = []storedefs.Entry{}
	}
	return entries, nil
}

// Decodes params into v, treating absent and null params as invalid.
func decodeParams(raw json.RawMessage, v any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (s *Server) currentStatus() Status {
	return Status{Interrupted: s.sigs.Interrupted()}
}
