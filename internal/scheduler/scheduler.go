package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is the unit of work run on every tick.
type Task interface {
	Tick(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context) error

// Tick calls f.
func (f TaskFunc) Tick(ctx context.Context) error {
	return f(ctx)
}

// Scheduler runs a Task at a fixed interval until stopped.
type Scheduler struct {
	task      Task
	interval  time.Duration
	logger    zerolog.Logger
	immediate bool
	newTicker func(time.Duration) (<-chan time.Time, func())

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// ErrAlreadyRunning is emitted when start is called twice.
var ErrAlreadyRunning = errors.New("scheduler already running")

// ErrNotRunning is emitted when trying to stop an idle scheduler.
var ErrNotRunning = errors.New("scheduler not running")

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithImmediate runs the task once as soon as the scheduler starts.
func WithImmediate() Option {
	return func(s *Scheduler) { s.immediate = true }
}

// WithTicker replaces the time source. Tests use it to drive ticks by hand.
func WithTicker(newTicker func(time.Duration) (<-chan time.Time, func())) Option {
	return func(s *Scheduler) { s.newTicker = newTicker }
}

// New builds a scheduler.
func New(task Task, interval time.Duration, logger *zerolog.Logger, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "scheduler").Logger()
	}
	s := &Scheduler{
		task:     task,
		interval: interval,
		logger:   l,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	if ctx == nil {
		ctx = context.Background()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})

	go s.run(loopCtx, s.done)
	s.logger.Debug().Dur("interval", s.interval).Msg("scheduler started")

	return nil
}

// Stop cancels the loop and waits for an in-flight tick to return. Once Stop
// returns no further tick runs. Calling Stop on an idle scheduler returns
// ErrNotRunning and has no other effect. Stop must not be called from inside
// the task.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Debug().Msg("scheduler stopped")
	return nil
}

// IsRunning reports the scheduler state.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticks, stop := s.newTicker(s.interval)
	defer stop()

	if s.immediate {
		s.execute(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			// a tick and cancellation can race in select
			if ctx.Err() != nil {
				return
			}
			s.execute(ctx)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context) {
	if err := s.task.Tick(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn().Err(err).Msg("scheduler iteration failed")
	}
}
