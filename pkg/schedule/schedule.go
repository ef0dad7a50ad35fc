// Package schedule runs interval and cron tasks in the background.
//
//	s := schedule.New()
//	s.Every(30 * time.Second).Name("catalog-refresh").WithoutOverlapping().Run(refresh)
//	s.Cron("0 3 * * *").Name("backup").Run(backup)
//	s.Start(ctx) // returns immediately; cancel ctx or call Stop to end
//
// Interval tasks first run one interval after Start. Cron tasks run at most
// once per matching minute.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// Task is a scheduled function. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context)

type entry struct {
	id        string
	interval  time.Duration
	cron      *cronSpec
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Scheduler owns a set of entries and the loop that dispatches them.
type Scheduler struct {
	tick time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries []*entry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTick sets how often due tasks are checked (default one second).
func WithTick(d time.Duration) Option { return func(s *Scheduler) { s.tick = d } }

func New(opts ...Option) *Scheduler {
	s := &Scheduler{tick: time.Second, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Schedule is a fluent builder for one entry before it is registered.
type Schedule struct {
	s   *Scheduler
	e   *entry
	err error
}

// Every schedules a task every d.
func (s *Scheduler) Every(d time.Duration) *Schedule {
	sc := &Schedule{s: s, e: &entry{interval: d}}
	if d <= 0 {
		sc.err = fmt.Errorf("schedule: interval must be positive, got %s", d)
	}
	return sc
}

// Cron schedules a task with a 5-field expression (minute hour dom month dow).
// Each field is *, */step, n, a-b or a comma list of those.
func (s *Scheduler) Cron(expr string) *Schedule {
	spec, err := parseCron(expr)
	return &Schedule{s: s, e: &entry{cron: spec}, err: err}
}

// WithoutOverlapping skips a run while the previous one is still executing.
func (sc *Schedule) WithoutOverlapping() *Schedule {
	sc.e.noOverlap = true
	return sc
}

// Name labels the entry in logs.
func (sc *Schedule) Name(id string) *Schedule {
	sc.e.id = id
	return sc
}

// Run registers the task. It fails only for an invalid interval or cron
// expression.
func (sc *Schedule) Run(fn Task) error {
	if sc.err != nil {
		return sc.err
	}
	sc.e.task = fn
	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()
	if sc.e.id == "" {
		sc.e.id = fmt.Sprintf("task-%d", len(sc.s.entries)+1)
	}
	sc.e.lastRun = sc.s.now()
	sc.s.entries = append(sc.s.entries, sc.e)
	return nil
}

// Start begins dispatching in the background. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	now := s.now()
	for _, e := range s.entries {
		e.mu.Lock()
		e.lastRun = now
		e.mu.Unlock()
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop cancels the loop and waits for running tasks to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// List describes the registered entries, e.g. "backup [0 3 * * *]".
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		freq := e.interval.String()
		if e.cron != nil {
			freq = e.cron.expr
		}
		out = append(out, fmt.Sprintf("%s [%s]", e.id, freq))
	}
	return out
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("schedule: stopped")
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			current := append([]*entry(nil), s.entries...)
			s.mu.Unlock()

			for _, e := range current {
				if e.due(now) {
					s.dispatch(ctx, e, now)
				}
			}
		}
	}
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cron != nil {
		minute := now.Truncate(time.Minute)
		return e.cron.match(now) && e.lastRun.Truncate(time.Minute).Before(minute)
	}
	return now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	e.lastRun = now
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "id", e.id)
		return
	}
	e.running = true
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
		}()
		logger.Debug("schedule: running task", "id", e.id)
		e.task(ctx)
	}()
}

// cronSpec holds the allowed values of each of the five fields.
type cronSpec struct {
	expr   string
	fields [5]map[int]bool
}

var cronBounds = [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

// ValidateCron reports whether expr is a supported 5-field expression.
func ValidateCron(expr string) error {
	_, err := parseCron(expr)
	return err
}

func parseCron(expr string) (*cronSpec, error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return nil, fmt.Errorf("schedule: cron %q: want 5 fields, got %d", expr, len(parts))
	}
	spec := &cronSpec{expr: expr}
	for i, part := range parts {
		set, err := parseField(part, cronBounds[i][0], cronBounds[i][1])
		if err != nil {
			return nil, fmt.Errorf("schedule: cron %q: %w", expr, err)
		}
		spec.fields[i] = set
	}
	return spec, nil
}

func parseField(field string, lo, hi int) (map[int]bool, error) {
	set := map[int]bool{}
	for _, item := range strings.Split(field, ",") {
		switch {
		case item == "*":
			for v := lo; v <= hi; v++ {
				set[v] = true
			}
		case strings.HasPrefix(item, "*/"):
			step, err := strconv.Atoi(item[2:])
			if err != nil || step <= 0 {
				return nil, fmt.Errorf("bad step %q", item)
			}
			for v := lo; v <= hi; v += step {
				set[v] = true
			}
		case strings.Contains(item, "-"):
			a, b, _ := strings.Cut(item, "-")
			from, err1 := strconv.Atoi(a)
			to, err2 := strconv.Atoi(b)
			if err1 != nil || err2 != nil || from > to || from < lo || to > hi {
				return nil, fmt.Errorf("bad range %q", item)
			}
			for v := from; v <= to; v++ {
				set[v] = true
			}
		default:
			n, err := strconv.Atoi(item)
			if err != nil || n < lo || n > hi {
				return nil, fmt.Errorf("bad value %q", item)
			}
			set[n] = true
		}
	}
	return set, nil
}

func (c *cronSpec) match(t time.Time) bool {
	values := [5]int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, v := range values {
		if !c.fields[i][v] {
			return false
		}
	}
	return true
}
