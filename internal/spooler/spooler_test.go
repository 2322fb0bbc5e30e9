package spooler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instalabel-print/internal/printer"
)

type fakeTarget struct {
	mu           sync.Mutex
	connected    bool
	connects     int
	connectFails int           // fail this many connect attempts before succeeding
	connectDelay time.Duration // how long each connect attempt takes
	sent         []string
	sendAttempts int
	sendErr      error
}

func (f *fakeTarget) Connect(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectDelay > 0 {
		time.Sleep(f.connectDelay)
	}
	f.connects++
	if f.connects <= f.connectFails {
		return printer.ErrClassicConnect
	}
	f.connected = true
	return nil
}

func (f *fakeTarget) Send(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendAttempts++
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeTarget) Status() printer.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return printer.Status{Connected: f.connected}
}

func (f *fakeTarget) snapshot() (int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, append([]string(nil), f.sent...)
}

func fastOptions() Options {
	return Options{
		ConnectRetries:  3,
		RetryDelay:      time.Millisecond,
		InterLabelDelay: time.Millisecond,
		QueueSize:       8,
	}
}

func runSpooler(t *testing.T, s *Spooler) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestSpoolerPrintsJobsInOrder(t *testing.T) {
	target := &fakeTarget{}
	s := New(target, "AA:BB:CC:DD:EE:FF", fastOptions(), nil)
	runSpooler(t, s)

	id1 := s.Enqueue("LABEL-1")
	id2 := s.Enqueue("LABEL-2")
	assert.NotEqual(t, id1, id2)

	assert.Eventually(t, func() bool {
		_, sent := target.snapshot()
		return len(sent) == 2
	}, time.Second, 5*time.Millisecond)

	_, sent := target.snapshot()
	assert.Equal(t, []string{"LABEL-1", "LABEL-2"}, sent)
}

func TestSpoolerRetriesConnectThenPrints(t *testing.T) {
	target := &fakeTarget{connectFails: 2}
	s := New(target, "AA:BB:CC:DD:EE:FF", fastOptions(), nil)
	runSpooler(t, s)

	s.Enqueue("LABEL")

	assert.Eventually(t, func() bool {
		_, sent := target.snapshot()
		return len(sent) == 1
	}, time.Second, 5*time.Millisecond)

	connects, _ := target.snapshot()
	assert.Equal(t, 3, connects) // two failures + one success
}

func TestSpoolerDropsJobAfterExhaustedRetries(t *testing.T) {
	target := &fakeTarget{connectFails: 100}
	s := New(target, "AA:BB:CC:DD:EE:FF", fastOptions(), nil)
	runSpooler(t, s)

	s.Enqueue("LABEL")

	assert.Eventually(t, func() bool {
		connects, _ := target.snapshot()
		return connects == 3
	}, time.Second, 5*time.Millisecond)

	// Retries stop at the limit and nothing is sent.
	time.Sleep(20 * time.Millisecond)
	connects, sent := target.snapshot()
	assert.Equal(t, 3, connects)
	assert.Empty(t, sent)
}

func TestSpoolerDoesNotRetryFailedPrints(t *testing.T) {
	target := &fakeTarget{connected: true, sendErr: errors.New("buffer overrun")}
	s := New(target, "AA:BB:CC:DD:EE:FF", fastOptions(), nil)
	runSpooler(t, s)

	s.Enqueue("LABEL")

	// The job fails once and is not re-sent: part of it may already be in
	// the printer buffer.
	assert.Eventually(t, func() bool {
		target.mu.Lock()
		defer target.mu.Unlock()
		return target.sendAttempts == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	target.mu.Lock()
	defer target.mu.Unlock()
	assert.Equal(t, 1, target.sendAttempts)
	assert.Empty(t, target.sent)
	assert.Zero(t, target.connects) // already connected, no dial needed
}

func TestCloseDrainsQueueBeforeRunReturns(t *testing.T) {
	target := &fakeTarget{}
	s := New(target, "AA:BB:CC:DD:EE:FF", fastOptions(), nil)

	s.Enqueue("LABEL-1")
	s.Enqueue("LABEL-2")
	s.Close()

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	_, sent := target.snapshot()
	assert.Equal(t, []string{"LABEL-1", "LABEL-2"}, sent)
}

func TestCloseWaitsForSlowConnect(t *testing.T) {
	// A printer that takes a while to come up must still get its label:
	// draining waits on the work itself, not on a wall-clock estimate.
	target := &fakeTarget{connectDelay: 70 * time.Millisecond}
	s := New(target, "AA:BB:CC:DD:EE:FF", fastOptions(), nil)

	s.Enqueue("LABEL")
	s.Close()

	start := time.Now()
	s.Run(context.Background())

	_, sent := target.snapshot()
	assert.Equal(t, []string{"LABEL"}, sent)
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestCloseIsIdempotent(t *testing.T) {
	s := New(&fakeTarget{}, "AA:BB:CC:DD:EE:FF", fastOptions(), nil)
	s.Close()
	assert.NotPanics(t, s.Close)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, 3, opts.ConnectRetries)
	assert.Equal(t, time.Second, opts.RetryDelay)
	assert.Equal(t, 500*time.Millisecond, opts.InterLabelDelay)
}
