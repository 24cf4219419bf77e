package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/hejijunhao/copilotlog/internal/model"
)

const defaultUnsubscribeTimeout = 5 * time.Second

// Source delivers document-change notifications from a host.
type Source interface {
	// Subscribe starts delivery. Notifications arrive on the returned
	// subscription until it is unsubscribed, ctx is cancelled, or the
	// source runs out of input.
	Subscribe(ctx context.Context) (*Subscription, error)
}

// Config holds the settings sources are constructed from.
type Config struct {
	Reader  io.Reader // input for stream sources
	Dir     string    // root directory for watch sources
	Exclude []string  // paths (files or directories) never reported
}

// Producer runs for the lifetime of a subscription. It calls emit for every
// notification; emit returns false once the subscription is cancelled, after
// which the producer should return.
type Producer func(ctx context.Context, emit func(model.Notification) bool) error

// Subscription is a handle on a running source. Callers must Unsubscribe
// when done.
type Subscription struct {
	ch     chan model.Notification
	cancel context.CancelFunc
	done   chan struct{}
	err    error

	stopTimeout  time.Duration
	abandonLevel slog.Level
}

// StartOption configures a Subscription.
type StartOption func(*Subscription)

// WithStopTimeout bounds how long Unsubscribe waits for a producer that may
// be stuck in a read nothing can interrupt, such as a terminal on stdin.
// Such a producer is abandoned after d and exits with the process; this is
// expected, so it is only logged at debug level.
func WithStopTimeout(d time.Duration) StartOption {
	return func(s *Subscription) {
		s.stopTimeout = d
		s.abandonLevel = slog.LevelDebug
	}
}

// Start runs produce in a goroutine and returns the subscription it feeds.
// The channel is closed when produce returns.
func Start(ctx context.Context, produce Producer, opts ...StartOption) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		ch:           make(chan model.Notification),
		cancel:       cancel,
		done:         make(chan struct{}),
		stopTimeout:  defaultUnsubscribeTimeout,
		abandonLevel: slog.LevelWarn,
	}
	for _, opt := range opts {
		opt(s)
	}
	emit := func(n model.Notification) bool {
		select {
		case s.ch <- n:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		defer close(s.done)
		defer close(s.ch)
		defer cancel()
		if err := produce(ctx, emit); err != nil && !errors.Is(err, context.Canceled) {
			s.err = err
		}
	}()
	return s
}

// C returns the notification channel.
func (s *Subscription) C() <-chan model.Notification {
	return s.ch
}

// Done is closed once the producer has returned.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns the producer's terminal error. Only meaningful after Done.
func (s *Subscription) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Unsubscribe stops the producer and waits for it to return, up to a
// timeout. It is safe to call more than once.
func (s *Subscription) Unsubscribe() error {
	s.cancel()
	select {
	case <-s.done:
		return s.err
	case <-time.After(s.stopTimeout):
		slog.Log(context.Background(), s.abandonLevel, "source did not stop before timeout", "timeout", s.stopTimeout)
		return nil
	}
}
