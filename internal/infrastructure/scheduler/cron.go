package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorhill/cronexpr"

	"JournalFeed/internal/ports"
)

// CronScheduler runs a job on every tick of a cron expression.
type CronScheduler struct {
	expr     *cronexpr.Expression
	location *time.Location
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler parses spec (5 or 6 field cron, or @daily/@hourly) evaluated in loc.
func NewCronScheduler(spec string, loc *time.Location) (*CronScheduler, error) {
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{expr: expr, location: loc, now: time.Now}, nil
}

// Next returns the first activation strictly after from, or the zero time when there is none.
func (c *CronScheduler) Next(from time.Time) time.Time {
	return c.expr.Next(from.In(c.location))
}

// Start runs job once immediately and then on every cron activation.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	if c.stop != nil {
		c.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop, c.done = stop, done
	c.mu.Unlock()

	go func() {
		defer close(done)
		job(c.now())
		for {
			next := c.Next(c.now())
			if next.IsZero() {
				return
			}

			timer := time.NewTimer(time.Until(next))
			select {
			case t := <-timer.C:
				job(t)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the timer goroutine and waits for a running job to return.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
