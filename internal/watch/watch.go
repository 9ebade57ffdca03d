// Package watch re-runs a resolution on a schedule until the model output
// it asks for has been written.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/harrison/modelout/internal/fileutil"
	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/logger"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/registry"
	"github.com/harrison/modelout/internal/resolver"
)

// ErrTimeout is returned by Run when no attempt succeeded before the timeout
var ErrTimeout = errors.New("watch timed out")

// Defaults used when Options leaves a duration at zero
const (
	DefaultInterval = time.Minute
	DefaultTimeout  = time.Hour
)

// Recorder stores the outcome of each attempt
type Recorder interface {
	Record(ctx context.Context, rec *history.Resolution) error
}

// Options configures a Watcher
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Glob     fileutil.GlobFunc
	Logger   logger.Logger
	History  Recorder
}

// Watcher resolves one request repeatedly. Every attempt builds a fresh
// resolver so each one sees the current directory contents.
type Watcher struct {
	reg      *registry.Registry
	req      models.ResolutionRequest
	interval time.Duration
	timeout  time.Duration
	glob     fileutil.GlobFunc
	log      logger.Logger
	history  Recorder

	mu       sync.Mutex
	attempts int
}

type outcome struct {
	result *models.ResolutionResult
	err    error
}

// New returns a Watcher for req. Requests that can never resolve (bad
// parameters, unknown model) are rejected here rather than retried.
func New(reg *registry.Registry, req models.ResolutionRequest, opts Options) (*Watcher, error) {
	r, err := resolver.New(reg, req)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		reg:      reg,
		req:      r.Request(),
		interval: opts.Interval,
		timeout:  opts.Timeout,
		glob:     opts.Glob,
		log:      opts.Logger,
		history:  opts.History,
	}
	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	if w.timeout <= 0 {
		w.timeout = DefaultTimeout
	}
	if w.log == nil {
		w.log = logger.NewNoOpLogger()
	}
	return w, nil
}

// Request returns the normalized request being watched
func (w *Watcher) Request() models.ResolutionRequest {
	return w.req
}

// Retryable reports whether a failed attempt may succeed once more files exist
func Retryable(err error) bool {
	return errors.Is(err, models.ErrNoMatch)
}

// Attempts returns how many resolutions have been tried
func (w *Watcher) Attempts() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attempts
}

// Attempt resolves the request once and records the outcome
func (w *Watcher) Attempt(ctx context.Context) (*models.ResolutionResult, error) {
	w.mu.Lock()
	w.attempts++
	n := w.attempts
	w.mu.Unlock()

	start := time.Now()
	var result *models.ResolutionResult
	r, err := resolver.New(w.reg, w.req, resolver.WithGlob(w.glob), resolver.WithLogger(w.log))
	if err == nil {
		result, err = r.Resolve()
	}

	if w.history != nil {
		rec := history.NewResolution(history.SourceWatch, w.req, result, err, time.Since(start))
		if herr := w.history.Record(ctx, rec); herr != nil {
			w.log.LogWarn("Failed to record resolution: " + herr.Error())
		}
	}

	if err != nil {
		w.log.LogDebug(fmt.Sprintf("Attempt %d for %s failed: %v", n, w.req.ValidTime, err))
		return nil, err
	}
	w.log.LogInfo(fmt.Sprintf("Attempt %d resolved %d file(s)", n, len(result.ValidFiles)))
	return result, nil
}

// Run attempts the resolution immediately and then every interval. It returns
// the first successful result, the first error that is not Retryable, or
// ErrTimeout once the timeout has passed.
func (w *Watcher) Run(ctx context.Context) (*models.ResolutionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(w.interval).SingletonMode().Do(func() {
		if ctx.Err() != nil {
			return
		}
		result, err := w.Attempt(ctx)
		if err != nil && Retryable(err) {
			w.log.LogInfo(fmt.Sprintf("No files yet for %s, retrying in %s", w.req.ValidTime, w.interval))
			return
		}
		select {
		case done <- outcome{result: result, err: err}:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule watch: %w", err)
	}

	w.log.LogInfo(fmt.Sprintf("Watching for %s %s at %s every %s (timeout %s)",
		w.req.Model, w.req.Format, w.req.ValidTime, w.interval, w.timeout))
	s.StartAsync()
	defer s.Stop()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s and %d attempt(s)", ErrTimeout, w.timeout, w.Attempts())
		}
		return nil, ctx.Err()
	}
}
