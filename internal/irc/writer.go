package irc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender writes one message to the transport.
type Sender interface {
	Send(m Message) error
}

// Writer drains a Queue into a Sender, spacing writes by a minimum interval.
type Writer struct {
	out     Sender
	queue   *Queue
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewWriter creates a Writer. An interval of zero disables spacing.
//
// Precondition: out, queue and logger must be non-nil; interval >= 0.
func NewWriter(out Sender, queue *Queue, interval time.Duration, logger *zap.Logger) *Writer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Writer{
		out:     out,
		queue:   queue,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Run sends messages in queue order until ctx is done, the queue is closed
// and drained, or a write fails.
//
// Postcondition: Returns nil on cancellation or queue close, otherwise the
// write error.
func (w *Writer) Run(ctx context.Context) error {
	for {
		m, err := w.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := w.limiter.Wait(ctx); err != nil {
			return nil
		}
		if err := w.out.Send(m); err != nil {
			return fmt.Errorf("writing %q: %w", redact(m), err)
		}
		w.logger.Debug("sent", zap.String("line", redact(m)))
	}
}

func redact(m Message) string {
	s := m.String()
	if len(s) >= 5 && s[:5] == "PASS " {
		return "PASS <redacted>"
	}
	return s
}
