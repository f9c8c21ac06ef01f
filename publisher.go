package sawmill

import (
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

// Publisher is a [Sink] that fans out rendered log lines to subscribers.
//
// Each [Publisher.WriteLine] delivers the line to every active
// [Subscription] via a buffered channel with ring-buffer semantics: when a
// subscriber's channel is full the oldest line is dropped so logging never
// blocks on a slow consumer. Safe for concurrent use.
//
// Combine it with [MultiSink] to also keep a durable copy:
//
//	pub := sawmill.NewPublisher()
//	logger.SetStream(sawmill.MultiSink{sawmill.WriterSink(logFile), pub})
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1. The default is 64.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}

		p.bufSize = n
	}
}

// NewPublisher creates a [Publisher] with the given options.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WriteLine delivers line to all active subscribers, dropping the oldest
// buffered line of any subscriber that is full. Closed subscriptions are
// compacted out of the subscriber list. WriteLine always returns nil.
func (p *Publisher) WriteLine(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	alive := p.subscribers[:0]

	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}

		sub.deliver(line)
		alive = append(alive, sub)
	}

	// Clear trailing references for GC.
	for i := len(alive); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}

	p.subscribers = alive

	return nil
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan string, p.bufSize),
	}

	if p.closed {
		close(sub.ch)
		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close marks the Publisher as closed, closes all subscription channels, and
// releases the subscriber list. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscription receives rendered log lines from a [Publisher].
type Subscription struct {
	ch     chan string
	closed atomic.Bool
}

// deliver enqueues line with drop-oldest semantics. The make-room receive
// must not block: the consumer may drain the channel between the failed
// send and the receive. The publisher is the only sender, so after making
// room the final send always has capacity.
func (s *Subscription) deliver(line string) {
	select {
	case s.ch <- line:
	default:
		select {
		case <-s.ch:
		default:
		}

		s.ch <- line
	}
}

// C returns the read-only channel that delivers log lines.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Close marks the subscription as closed. The Publisher closes the
// underlying channel on its next WriteLine or Close call. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
