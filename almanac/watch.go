package almanac

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ngrash/go-moon/lunar"
)

// Watcher reports the upcoming phase events on a cron schedule.
type Watcher struct {
	count    int
	labels   Labeler
	report   func([]lunar.Event)
	now      func() time.Time
	schedule cron.Schedule
	cron     *cron.Cron
}

// NewWatcher returns a Watcher that passes the next count events to report
// whenever the standard cron expression expr fires. Schedules are in UTC.
func NewWatcher(expr string, count int, l Labeler, report func([]lunar.Event)) (*Watcher, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	w := &Watcher{
		count:    count,
		labels:   l,
		report:   report,
		now:      time.Now,
		schedule: schedule,
		cron:     cron.New(cron.WithLocation(time.UTC)),
	}
	w.cron.Schedule(schedule, cron.FuncJob(w.Tick))
	return w, nil
}

// Start starts the schedule in its own goroutine.
func (w *Watcher) Start() {
	w.cron.Start()
}

// Stop stops the schedule. The returned context is done once a running
// report has completed.
func (w *Watcher) Stop() context.Context {
	return w.cron.Stop()
}

// Next returns the time the schedule fires next after t.
func (w *Watcher) Next(t time.Time) time.Time {
	return w.schedule.Next(t.UTC())
}

// Tick reports the upcoming events immediately.
func (w *Watcher) Tick() {
	w.report(Upcoming(w.now(), w.count, w.labels))
}
