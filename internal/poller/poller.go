// Package poller re-runs the inactivity evaluation on a fixed interval.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/didyoueat/didyoueat/internal/app"
	"github.com/didyoueat/didyoueat/internal/logging"
)

// DefaultInterval is the evaluation period.
const DefaultInterval = 15 * time.Second

// EvalFunc produces one evaluation snapshot.
type EvalFunc func(ctx context.Context) app.Snapshot

// Poller drives an EvalFunc from a single goroutine, so evaluations never overlap.
type Poller struct {
	interval  time.Duration
	eval      EvalFunc
	callbacks *Callbacks

	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	ticks   int
	last    app.Snapshot
	breach  bool
}

// New creates a poller. A non-positive interval falls back to DefaultInterval.
func New(interval time.Duration, eval EvalFunc, callbacks *Callbacks) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		interval:  interval,
		eval:      eval,
		callbacks: callbacks,
	}
}

// Interval returns the evaluation period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start evaluates once immediately, then on every interval until Stop is
// called or ctx is done. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx, p.stop)
}

// Stop halts the poller and waits for the loop to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Status returns the number of evaluations so far and the latest snapshot.
func (p *Poller) Status() (ticks int, last app.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticks, p.last
}

func (p *Poller) run(ctx context.Context, stop <-chan struct{}) {
	defer p.wg.Done()

	logging.Info("Poller started", logging.Duration("interval", p.interval))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-stop:
			logging.Info("Poller stopped")
			return
		case <-ctx.Done():
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
			logging.Info("Poller stopped", logging.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	snap := p.eval(ctx)

	p.mu.Lock()
	p.ticks++
	p.last = snap
	wasBreached := p.breach
	p.breach = snap.Active && snap.Result.Breached()
	recovered := wasBreached && snap.Active && !snap.Result.Breached()
	p.mu.Unlock()

	logging.Debug("Evaluated",
		logging.Bool("active", snap.Active),
		logging.String("state", snap.Result.State.String()),
		logging.String("countdown", snap.Countdown))

	p.callbacks.callOnTick(snap)
	if snap.Raised {
		logging.Warn("No confirmed check-in within the window")
		p.callbacks.callOnBreach(snap)
	}
	if recovered {
		logging.Info("Check-in received, monitor back to normal")
		p.callbacks.callOnRecover(snap)
	}
}
