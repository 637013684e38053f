package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/services/lobby"
)

// Server accepts lobby client connections and runs one dispatcher
// goroutine per connection
type Server struct {
	hub     *lobby.Hub
	catalog *catalog.Service
	logger  *slog.Logger

	handlers map[string]handler

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool

	wg sync.WaitGroup
}

// New creates a lobby server
func New(hub *lobby.Hub, catalogService *catalog.Service, logger *slog.Logger) *Server {
	s := &Server{
		hub:     hub,
		catalog: catalogService,
		logger:  logger,
		conns:   make(map[net.Conn]struct{}),
	}
	s.handlers = s.buildHandlers()
	return s
}

// Listen binds the listening socket. Use Addr afterwards to discover the
// bound address when listening on port 0.
func (s *Server) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("lobby server listening", slog.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound listen address
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the accept loop until Shutdown closes the listener
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("serve called before listen")
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Shutdown stops accepting, closes live connections, and waits for their
// dispatchers (and disconnect cascades) to finish or the context to expire
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listener := s.listener
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if listener != nil {
		_ = listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("lobby server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// removeConn drops a finished connection from the live set
func (s *Server) removeConn(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}
