package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/protocol"
)

// session is the per-connection dispatcher state. The username is bound
// on successful LOGIN and cleared by LOGOUT; it is only ever touched by
// the connection's own goroutine.
type session struct {
	srv      *Server
	conn     net.Conn
	username string
	role     model.Role
	logger   *slog.Logger
}

// handler processes one request. A returned response is framed back to
// the client; nil means the handler already wrote everything it needed
// to. A returned error is fatal to the connection.
type handlerFunc func(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error)

type handler struct {
	fn handlerFunc
	// needsAuth rejects the request with an ERROR envelope when no user
	// is bound to the connection
	needsAuth bool
}

// handleConn runs the dispatcher loop for one connection. Malformed
// framing tears the connection down; unknown tags and failed
// preconditions are ERROR envelopes and the loop continues. Either way
// the disconnect cascade runs exactly once on the way out.
func (s *Server) handleConn(conn net.Conn) {
	sess := &session{
		srv:    s,
		conn:   conn,
		logger: s.logger.With(slog.String("remote", conn.RemoteAddr().String())),
	}
	sess.logger.Debug("client connected")

	defer func() {
		s.hub.Disconnect(context.Background(), sess.username)
		_ = conn.Close()
		s.removeConn(conn)
		sess.logger.Debug("client disconnected")
	}()

	ctx := context.Background()
	for {
		var req protocol.Request
		err := protocol.ReadMessage(conn, &req)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			if errors.Is(err, protocol.ErrProtocolViolation) {
				sess.logger.Warn("protocol violation", slog.Any("error", err))
			}
			return
		}

		resp, err := sess.dispatch(ctx, &req)
		if err != nil {
			sess.logger.Warn("connection failed mid-request",
				slog.String("type", string(req.Type)),
				slog.Any("error", err),
			)
			return
		}
		if resp == nil {
			continue
		}
		if err := protocol.WriteMessage(conn, resp); err != nil {
			return
		}
	}
}

// dispatch routes one request to its handler. Handler panics become
// ERROR envelopes rather than killing the connection goroutine.
func (sess *session) dispatch(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			sess.logger.Error("handler panicked",
				slog.String("type", string(req.Type)),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			resp = protocol.Error(fmt.Sprintf("internal error handling %s", req.Type))
			err = nil
		}
	}()

	h, ok := sess.srv.handlers[string(req.Type)]
	if !ok {
		return protocol.Error(fmt.Sprintf("unknown message type %q", req.Type)), nil
	}
	if h.needsAuth && sess.username == "" {
		return protocol.Error("not logged in"), nil
	}
	return h.fn(ctx, sess, req)
}
