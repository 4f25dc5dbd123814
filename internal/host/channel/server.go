// Package channel runs the TCP server side of a Vim JSON channel.
//
// Mappings, abbreviations, and autocommands installed by the bridge embed
// ch_evalexpr() calls that send ['dispatch', '<handle>'] back over the
// channel. This server accepts those connections, decodes Vim's
// [seq, payload] frames, routes dispatch requests to the callback registry,
// and writes the [seq, result] reply Vim is blocking on.
package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/dshills/vimdrive/internal/callback"
)

// Dispatcher routes a handle received over the channel to its callable.
// *callback.Registry satisfies this.
type Dispatcher interface {
	Dispatch(h callback.Handle) (string, error)
}

// Server accepts Vim channel connections and serves dispatch requests.
type Server struct {
	dispatcher Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server routing dispatch requests to d.
func New(d Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		logger:     slog.Default(),
		conns:      make(map[net.Conn]struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on addr and begins accepting connections. Pass
// "127.0.0.1:0" to let the kernel pick a port; Addr reports the result.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("channel listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(ln)

	s.logger.Info("channel server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listen address. Empty before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// OpenCommand returns the ex command that makes Vim open the channel and
// store it in channelVar, which must match the variable the bridge embeds in
// its dispatch expressions.
func (s *Server) OpenCommand(channelVar string) string {
	return fmt.Sprintf("let %s = ch_open('%s', {'mode': 'json'})", channelVar, s.Addr())
}

// Close stops accepting and closes all live connections.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		if s.listener != nil {
			err = s.listener.Close()
		}
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()

		s.wg.Wait()
	})
	return err
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			s.logger.Error("channel accept", "error", err)
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

// serveConn reads frames off one connection until it closes.
func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			select {
			case <-s.done:
			default:
				if !errors.Is(err, net.ErrClosed) {
					s.logger.Debug("channel connection closed", "error", err)
				}
			}
			return
		}

		seq, result := s.handleFrame(raw)
		if seq == 0 {
			continue
		}
		if err := enc.Encode([]any{seq, result}); err != nil {
			s.logger.Error("channel write", "error", err)
			return
		}
	}
}

// handleFrame decodes one [seq, payload] frame and produces the reply body.
// A zero sequence means no reply is owed.
func (s *Server) handleFrame(raw json.RawMessage) (int64, string) {
	frame := gjson.ParseBytes(raw)
	if !frame.IsArray() {
		s.logger.Warn("channel frame is not an array", "frame", frame.String())
		return 0, ""
	}

	parts := frame.Array()
	if len(parts) != 2 {
		s.logger.Warn("malformed channel frame", "frame", frame.String())
		return 0, ""
	}
	seq := parts[0].Int()

	payload := parts[1]
	if !payload.IsArray() || payload.Get("0").String() != "dispatch" {
		s.logger.Warn("unknown channel request", "payload", payload.String())
		return seq, ""
	}

	handle := callback.Handle(payload.Get("1").String())
	result, err := s.dispatcher.Dispatch(handle)
	if err != nil {
		var stale *callback.StaleHandleError
		if errors.As(err, &stale) {
			s.logger.Warn("stale callback handle", "handle", handle)
		} else {
			s.logger.Error("callback failed", "handle", handle, "error", err)
		}
		return seq, ""
	}
	return seq, result
}
