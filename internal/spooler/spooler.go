// Package spooler runs the label print queue: one job at a time, connect
// retries with a pause between attempts, and a fixed delay between labels
// so the printer's receive buffer is never overrun.
package spooler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"instalabel-print/internal/metrics"
	"instalabel-print/internal/printer"
)

// Target is the printer surface the spooler drives. *printer.Manager
// satisfies it; tests use fakes.
type Target interface {
	Connect(ctx context.Context, address string) error
	Send(cmd string) error
	Status() printer.Status
}

// Job is one queued label print.
type Job struct {
	ID      uuid.UUID
	Command string
}

// Options tune the queue's retry and pacing behavior.
type Options struct {
	ConnectRetries  int           // connection attempts before giving up
	RetryDelay      time.Duration // pause between connection attempts
	InterLabelDelay time.Duration // pause between consecutive labels
	QueueSize       int
}

// DefaultOptions matches the app's documented contract: 3 connect attempts
// 1s apart, 500ms between labels.
func DefaultOptions() Options {
	return Options{
		ConnectRetries:  3,
		RetryDelay:      time.Second,
		InterLabelDelay: 500 * time.Millisecond,
		QueueSize:       64,
	}
}

// Spooler owns the job queue and the worker draining it.
type Spooler struct {
	target    Target
	address   string
	opts      Options
	jobs      chan Job
	closeOnce sync.Once
	log       *zap.Logger
}

// New creates a Spooler printing to the device at address via target.
func New(target Target, address string, opts Options, log *zap.Logger) *Spooler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	return &Spooler{
		target:  target,
		address: address,
		opts:    opts,
		jobs:    make(chan Job, opts.QueueSize),
		log:     log,
	}
}

// Enqueue adds a rendered command to the queue and returns its job ID.
// Blocks when the queue is full.
func (s *Spooler) Enqueue(cmd string) uuid.UUID {
	job := Job{ID: uuid.New(), Command: cmd}
	s.jobs <- job
	return job.ID
}

// Close stops intake. Run finishes the jobs already queued, however long
// their connects take, and then returns. Enqueue must not be called after
// Close.
func (s *Spooler) Close() {
	s.closeOnce.Do(func() { close(s.jobs) })
}

// Run drains the queue until Close is called and the remaining jobs are
// done, or until ctx is cancelled. Jobs are strictly sequential; each send
// is awaited and followed by the inter-label delay.
func (s *Spooler) Run(ctx context.Context) {
	s.log.Info("spooler started", zap.String("address", s.address))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("spooler shutting down")
			return
		case job, ok := <-s.jobs:
			if !ok {
				s.log.Info("queue drained")
				return
			}
			s.process(ctx, job)
		}
	}
}

func (s *Spooler) process(ctx context.Context, job Job) {
	log := s.log.With(zap.String("job", job.ID.String()))

	if err := s.ensureConnected(ctx); err != nil {
		log.Warn("job dropped, printer unreachable", zap.Error(err))
		metrics.SpoolerJobsTotal.WithLabelValues("dropped").Inc()
		return
	}

	if err := s.target.Send(job.Command); err != nil {
		// Print failures are not retried: part of the job may already
		// be in the printer buffer.
		log.Warn("print failed", zap.Error(err))
		metrics.SpoolerJobsTotal.WithLabelValues("failed").Inc()
		return
	}

	log.Debug("label printed", zap.Int("bytes", len(job.Command)))
	metrics.SpoolerJobsTotal.WithLabelValues("printed").Inc()

	select {
	case <-ctx.Done():
	case <-time.After(s.opts.InterLabelDelay):
	}
}

// ensureConnected connects if needed, retrying up to ConnectRetries times
// with RetryDelay pauses. Each attempt is independent; the manager tears
// down prior state itself.
func (s *Spooler) ensureConnected(ctx context.Context) error {
	if s.target.Status().Connected {
		return nil
	}

	var err error
	for attempt := 1; attempt <= s.opts.ConnectRetries; attempt++ {
		err = s.target.Connect(ctx, s.address)
		if err == nil {
			return nil
		}
		s.log.Debug("connect attempt failed",
			zap.Int("attempt", attempt), zap.Error(err))

		if attempt == s.opts.ConnectRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.RetryDelay):
		}
	}
	return err
}
