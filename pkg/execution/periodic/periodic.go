package periodic

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vnykmshr/goexec/pkg/execution/threadpool"
)

// EntryID identifies a scheduled entry and can be used to remove it.
type EntryID = cron.EntryID

// Runner submits functions to a thread pool on a cron schedule. It owns a
// single timing goroutine; the functions themselves always run on the pool's
// workers, never on the timer goroutine.
type Runner struct {
	exec   threadpool.Executor
	cron   *cron.Cron
	logger *zap.Logger
}

// Config holds configuration options for creating a Runner.
type Config struct {
	// Location is the timezone for cron expression evaluation.
	// Defaults to time.Local.
	Location *time.Location

	// Logger receives a record when a scheduled submission is rejected by
	// the pool. If nil, rejections are dropped silently.
	Logger *zap.Logger
}

// New creates a Runner that posts scheduled functions to exec.
func New(exec threadpool.Executor) *Runner {
	return NewWithConfig(exec, Config{})
}

// NewWithConfig creates a Runner with the specified configuration.
func NewWithConfig(exec threadpool.Executor, config Config) *Runner {
	location := config.Location
	if location == nil {
		location = time.Local
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		exec:   exec,
		cron:   cron.New(cron.WithLocation(location)),
		logger: logger,
	}
}

// Add schedules f to be posted to the pool on every tick of the cron
// expression. Standard five-field expressions and descriptors such as
// "@hourly" or "@every 10s" are accepted. Returns an error if the
// expression does not parse.
func (r *Runner) Add(cronExpr string, f func()) (EntryID, error) {
	return r.cron.AddFunc(cronExpr, func() {
		if err := r.exec.Post(f); err != nil {
			r.logger.Warn("periodic submission rejected",
				zap.String("schedule", cronExpr),
				zap.Error(err),
			)
		}
	})
}

// Remove cancels a scheduled entry. Removing an unknown ID is a no-op.
func (r *Runner) Remove(id EntryID) {
	r.cron.Remove(id)
}

// Entries returns a snapshot of the scheduled entries.
func (r *Runner) Entries() []cron.Entry {
	return r.cron.Entries()
}

// Start begins the timing goroutine. No entry fires before Start.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the timing goroutine and blocks until in-flight tick callbacks
// have returned. Functions already posted to the pool are unaffected.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
