package irc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/chat"
	"github.com/totorewa/folderbot/internal/config"
)

// drainTimeout bounds how long queued replies may take to flush on shutdown.
const drainTimeout = 5 * time.Second

// DialFunc opens a connection.
type DialFunc func(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) (*Conn, error)

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithDialer replaces Dial.
func WithDialer(d DialFunc) SessionOption {
	return func(s *Session) { s.dial = d }
}

// WithPrepare runs fn before every connection attempt. An error from fn ends
// the session.
func WithPrepare(fn func(ctx context.Context) error) SessionOption {
	return func(s *Session) { s.prepare = fn }
}

// WithAutosave checks a on every received line.
func WithAutosave(a *Autosave) SessionOption {
	return func(s *Session) { s.autosave = a }
}

// Session keeps the bot connected: it dials, authenticates, runs the read
// loop and the writer, and reconnects after a delay when the connection
// drops.
type Session struct {
	cfg      config.IRCConfig
	creds    config.Credentials
	handler  Handler
	parser   *chat.Parser
	autosave *Autosave
	prepare  func(ctx context.Context) error
	dial     DialFunc
	logger   *zap.Logger
}

// NewSession creates a Session.
//
// Precondition: handler and logger must be non-nil.
func NewSession(cfg config.IRCConfig, creds config.Credentials, handler Handler, logger *zap.Logger, opts ...SessionOption) *Session {
	s := &Session{
		cfg:     cfg,
		creds:   creds,
		handler: handler,
		parser:  chat.NewParser(),
		dial:    Dial,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run connects and reconnects until a shutdown is requested or ctx is done.
//
// Postcondition: Returns nil on shutdown, or the error of the prepare hook.
func (s *Session) Run(ctx context.Context) error {
	for {
		log := s.logger.With(zap.String("session", uuid.NewString()))
		if s.prepare != nil {
			if err := s.prepare(ctx); err != nil {
				return fmt.Errorf("preparing session: %w", err)
			}
		}

		log.Info("connecting",
			zap.String("addr", s.cfg.Addr()),
			zap.String("nick", s.creds.Nick),
			zap.String("channel", s.creds.Channel),
		)
		result, err := s.attempt(ctx, log)
		if err != nil {
			log.Warn("connection attempt failed", zap.Error(err))
		}
		if result == ResultShutdown || ctx.Err() != nil {
			log.Info("session stopped")
			return nil
		}

		log.Info("reconnecting", zap.Duration("delay", s.cfg.ReconnectDelay))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.cfg.ReconnectDelay):
		}
	}
}

func (s *Session) attempt(ctx context.Context, log *zap.Logger) (Result, error) {
	conn, err := s.dial(ctx, s.cfg.Addr(), s.cfg.ReadTimeout, s.cfg.WriteTimeout)
	if err != nil {
		return ResultReconnect, err
	}
	defer conn.Close()

	queue := NewQueue()
	queue.Push(Pass(s.creds.Secret))
	queue.Push(Nick(s.creds.Nick))
	queue.Push(Join(s.creds.Channel))

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	writer := NewWriter(conn, queue, s.cfg.SendInterval, log)
	done := make(chan error, 1)
	go func() {
		err := writer.Run(wctx)
		if err != nil {
			log.Warn("writer stopped", zap.Error(err))
			_ = conn.Close()
		}
		done <- err
	}()

	client := NewClient(conn, queue, s.creds.Channel, s.parser, s.handler, s.autosave, log)
	result := client.Run(ctx)
	log.Info("read loop ended", zap.Stringer("result", result))

	if result == ResultShutdown && ctx.Err() == nil {
		queue.Close()
		select {
		case <-done:
			return result, nil
		case <-time.After(drainTimeout):
		}
	}
	cancel()
	<-done
	return result, nil
}
