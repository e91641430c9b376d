// Package poller owns the fetch/refresh cadence for watch mode.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"coinwatch/internal/market"
	"coinwatch/internal/models"
)

// FetchFunc fetches one snapshot from the market endpoint.
type FetchFunc func(ctx context.Context) (*models.Snapshot, error)

// Controller triggers an immediate fetch on Start and schedules a recurring
// fetch at a fixed interval. Fetches run in their own goroutines but every
// completion is applied on a single loop goroutine, so snapshot install,
// alert evaluation and view recompute never interleave between two fetches.
//
// Overlapping fetches are accepted as benign: whichever completes last wins.
// Stop cancels the schedule only; in-flight fetches complete and still apply.
type Controller struct {
	interval  time.Duration
	fetch     FetchFunc
	snapshots *market.SnapshotStore
	logger    zerolog.Logger

	onSnapshot func(*models.Snapshot)
	onError    func(error)

	refresh chan struct{}
	stop    chan struct{}
	done    chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

type fetchResult struct {
	snapshot *models.Snapshot
	err      error
}

// New creates a Controller. Successful fetches are installed into the given
// snapshot store before any callback fires.
func New(interval time.Duration, fetch FetchFunc, snapshots *market.SnapshotStore, logger zerolog.Logger) *Controller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Controller{
		interval:  interval,
		fetch:     fetch,
		snapshots: snapshots,
		logger:    logger,
		refresh:   make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// SetOnSnapshot sets the callback invoked after each successful install.
// Must be called before Start.
func (c *Controller) SetOnSnapshot(fn func(*models.Snapshot)) {
	c.onSnapshot = fn
}

// SetOnError sets the callback invoked on each fetch failure.
// Must be called before Start.
func (c *Controller) SetOnError(fn func(error)) {
	c.onError = fn
}

// Start triggers an immediate fetch and begins the recurring schedule.
// Subsequent calls are no-ops.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go c.run(ctx)
	})
}

// RefreshNow triggers an out-of-band fetch without disturbing the schedule.
// A refresh already queued, or a stopped controller, makes this a no-op.
func (c *Controller) RefreshNow() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels the recurring schedule. In-flight fetches still complete and
// apply their results before the loop winds down.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// Done is closed once the loop has exited and all pending results applied.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	results := make(chan fetchResult)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	pending := 0
	stopped := false
	stopCh := c.stop

	launch := func() {
		pending++
		go c.doFetch(ctx, results)
	}

	launch()

	for {
		if stopped && pending == 0 {
			return
		}

		select {
		case <-ticker.C:
			if !stopped {
				launch()
			}
		case <-c.refresh:
			if !stopped {
				launch()
			}
		case res := <-results:
			pending--
			c.apply(res)
		case <-stopCh:
			stopped = true
			stopCh = nil // a closed channel would spin this select
			ticker.Stop()
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) doFetch(ctx context.Context, results chan<- fetchResult) {
	snapshot, err := c.fetch(ctx)
	select {
	case results <- fetchResult{snapshot: snapshot, err: err}:
	case <-ctx.Done():
	}
}

// apply runs on the loop goroutine only.
func (c *Controller) apply(res fetchResult) {
	if res.err != nil {
		c.logger.Warn().Err(res.err).Msg("Poll failed, keeping previous snapshot")
		if c.onError != nil {
			c.onError(res.err)
		}
		return
	}

	c.snapshots.Install(res.snapshot)
	if c.onSnapshot != nil {
		c.onSnapshot(res.snapshot)
	}
}
