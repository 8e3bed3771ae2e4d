package irc

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/chat"
)

// Result is how a read loop ended.
type Result int

const (
	// ResultReconnect means the connection was lost.
	ResultReconnect Result = iota
	// ResultShutdown means a handler or the caller asked the bot to stop.
	ResultShutdown
)

func (r Result) String() string {
	if r == ResultShutdown {
		return "shutdown"
	}
	return "reconnect"
}

// Replier answers in chat on the current connection.
type Replier interface {
	// Say sends text as a chat message.
	Say(text string)
	// Raw sends text as a protocol line.
	Raw(text string)
}

// Handler consumes decomposed chat commands one at a time.
type Handler interface {
	// HandleCommand processes one message from user. Returning true asks the
	// bot to shut down.
	HandleCommand(ctx context.Context, out Replier, user string, cmd chat.Command) (stop bool)
}

// LineConn is the inbound half of a connection.
type LineConn interface {
	ReadLine() (string, error)
	Close() error
}

// Saver persists state on a schedule.
type Saver interface {
	Save(ctx context.Context) error
}

// Autosave runs a Saver when at least interval has passed since the last
// run. The first check always saves.
type Autosave struct {
	mu       sync.Mutex
	saver    Saver
	interval time.Duration
	last     time.Time
	logger   *zap.Logger
}

// NewAutosave creates an Autosave.
//
// Precondition: saver and logger must be non-nil; interval > 0.
func NewAutosave(saver Saver, interval time.Duration, logger *zap.Logger) *Autosave {
	return &Autosave{saver: saver, interval: interval, logger: logger}
}

// Check saves when due at now. Save failures are logged and retried on a
// later check.
//
// Postcondition: Returns true when a save was attempted.
func (a *Autosave) Check(ctx context.Context, now time.Time) bool {
	a.mu.Lock()
	if !a.last.IsZero() && now.Sub(a.last) <= a.interval {
		a.mu.Unlock()
		return false
	}
	a.last = now
	a.mu.Unlock()

	a.logger.Info("autosaving player data")
	if err := a.saver.Save(ctx); err != nil {
		a.logger.Error("autosave failed", zap.Error(err))
	}
	return true
}

// Client runs the read loop for one connection.
type Client struct {
	conn     LineConn
	queue    *Queue
	out      *Outbox
	parser   *chat.Parser
	handler  Handler
	autosave *Autosave
	now      func() time.Time
	logger   *zap.Logger
}

// NewClient creates a read loop over conn. Replies and PONGs go to queue.
// autosave may be nil.
//
// Precondition: conn, queue, parser, handler and logger must be non-nil.
func NewClient(conn LineConn, queue *Queue, channel string, parser *chat.Parser, handler Handler, autosave *Autosave, logger *zap.Logger) *Client {
	return &Client{
		conn:     conn,
		queue:    queue,
		out:      NewOutbox(queue, channel),
		parser:   parser,
		handler:  handler,
		autosave: autosave,
		now:      time.Now,
		logger:   logger,
	}
}

// Run reads lines until the connection drops, a handler requests a stop, or
// ctx is cancelled. Cancelling ctx closes the connection.
//
// Postcondition: Returns ResultReconnect on disconnect, ResultShutdown
// otherwise.
func (c *Client) Run(ctx context.Context) Result {
	m := chat.NewMachine()
	m.Begin()
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	for {
		line, err := c.conn.ReadLine()
		if ctx.Err() != nil {
			m.Cancel()
			return ResultShutdown
		}
		if err != nil {
			if !disconnected(err) {
				c.logger.Warn("read error", zap.Error(err))
				continue
			}
			c.logger.Info("connection lost", zap.Error(err))
			line = ""
		}
		c.logger.Debug("received", zap.String("line", line))

		if c.autosave != nil {
			c.autosave.Check(ctx, c.now())
		}

		frame := c.parser.ParseFrame(line)
		switch m.Feed(frame) {
		case chat.ActionPong:
			c.queue.Push(Pong())
		case chat.ActionReconnect:
			return ResultReconnect
		case chat.ActionDispatch:
			cmd, ok := c.parser.Decompose(frame.Message)
			if !ok {
				m.Dispatched(false)
				continue
			}
			m.Dispatched(c.handler.HandleCommand(ctx, c.out, frame.User, cmd))
			if m.State() == chat.StateStopped {
				return ResultShutdown
			}
		}
	}
}

func disconnected(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
