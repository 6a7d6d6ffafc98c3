// Package health implements liveness and readiness probes.
//
// Every check runs in its own goroutine at a fixed interval. A check flips to
// unhealthy after failureThreshold consecutive failures and back to healthy
// after successThreshold consecutive successes, so a single slow tick does
// not flap the probe.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	failureThreshold = 3
	successThreshold = 1
)

// CheckFunc reports whether a component is healthy.
type CheckFunc func(ctx context.Context) error

// Kind is the probe a check belongs to.
type Kind string

const (
	Liveness  Kind = "liveness"
	Readiness Kind = "readiness"
)

type check struct {
	kind    Kind
	name    string
	timeout time.Duration
	fn      CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	// Owned by the check goroutine.
	fails int
	oks   int
}

func (c *check) err() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// run executes the check once. Must be called from a single goroutine.
// Reports whether the health state changed.
func (c *check) run(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(ctx)
	c.lastErr.Store(&err)

	was := c.healthy.Load()
	if err != nil {
		c.oks = 0
		c.fails++
		if c.fails >= failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.fails = 0
		c.oks++
		if c.oks >= successThreshold {
			c.healthy.Store(true)
		}
	}
	return was != c.healthy.Load()
}

// Health manages liveness and readiness checks of a service.
type Health struct {
	lg    *zap.Logger
	ready atomic.Bool

	mu     sync.RWMutex
	checks []*check
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a Health in the not-ready state. Call SetReady(true) once the
// service is initialized.
func New(lg *zap.Logger) *Health {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Health{lg: lg}
}

// Add registers a check. Checks start healthy.
func (h *Health) Add(kind Kind, name string, timeout time.Duration, fn CheckFunc) {
	c := &check{kind: kind, name: name, timeout: timeout, fn: fn}
	c.healthy.Store(true)

	h.mu.Lock()
	h.checks = append(h.checks, c)
	h.mu.Unlock()
}

// AddLivenessCheck registers a check that tells whether the process works
// at all, e.g. goroutine count or GC pauses.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.Add(Liveness, name, timeout, fn)
}

// AddReadinessCheck registers a check that tells whether the service can
// take traffic, e.g. storage availability.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.Add(Readiness, name, timeout, fn)
}

// Start runs every registered check in the background until Stop is called
// or ctx is done.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	h.mu.Lock()
	h.cancel = cancel
	h.group = g
	checks := slices.Clone(h.checks)
	h.mu.Unlock()

	for _, c := range checks {
		g.Go(func() error {
			h.loop(ctx, c, interval)
			return nil
		})
	}
}

func (h *Health) loop(ctx context.Context, c *check, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if c.run(ctx) {
			h.logTransition(c)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *Health) logTransition(c *check) {
	fields := []zap.Field{
		zap.String("check", c.name),
		zap.String("kind", string(c.kind)),
	}
	if c.healthy.Load() {
		h.lg.Info("Health check recovered", fields...)
		return
	}
	h.lg.Warn("Health check failing", append(fields, zap.Error(c.err()))...)
}

// Stop cancels the background checks and waits for them to return. It is
// safe to call Stop more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	cancel, g := h.cancel, h.group
	h.cancel, h.group = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	_ = g.Wait()
}

// SetReady sets the manual readiness flag. It is set to false during
// graceful shutdown so load balancers stop routing new traffic.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passes.
func (h *Health) IsReady() bool {
	return h.ready.Load() && len(h.failures(Readiness)) == 0
}

// failures maps the name of every unhealthy check of kind to its last error.
func (h *Health) failures(kind Kind) map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]string)
	for _, c := range h.checks {
		if c.kind != kind || c.healthy.Load() {
			continue
		}
		msg := "check is unhealthy"
		if err := c.err(); err != nil {
			msg = err.Error()
		}
		out[c.name] = msg
	}
	return out
}

// LiveEndpoint serves /livez: 200 while every liveness check passes, 503
// with the failing checks otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, h.failures(Liveness))
}

// ReadyEndpoint serves /readyz: 200 while the service is marked ready and
// every readiness check passes, 503 with details otherwise.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := h.failures(Readiness)
	if !h.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeStatus(w, failures)
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	code, status := http.StatusOK, "ok"
	if len(failures) > 0 {
		code, status = http.StatusServiceUnavailable, "unhealthy"
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.ObjStart()
	e.FieldStart("status")
	e.Str(status)
	if len(failures) > 0 {
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		slices.Sort(names)

		e.FieldStart("checks")
		e.ObjStart()
		for _, name := range names {
			e.FieldStart(name)
			e.Str(failures[name])
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
