package exec

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Job is one run-code request.
type Job struct {
	Language Language
	Source   string
	Stdin    string
	RunBy    string
}

type QueueStatus struct {
	QueueLength  int  `json:"queueLength"`
	IsProcessing bool `json:"isProcessing"`
}

// Options tune the gateway. Sleep and Now exist so tests can run the
// backoff schedule without waiting for it.
type Options struct {
	MinDelay   time.Duration
	MaxRetries int
	Timeout    time.Duration
	Backoff    func(attempt int) time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
	Now        func() time.Time
}

func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

type outcome struct {
	res Result
	err error
}

type queued struct {
	job  Job
	done chan outcome
}

// Gateway serialises calls to the execution backend: one job in flight,
// MinDelay between the end of one dispatch and the start of the next, and
// exponential backoff on rate limiting.
type Gateway struct {
	client Client
	opts   Options

	mu         sync.Mutex
	queue      []*queued
	processing bool
	lastDone   time.Time

	wake chan struct{}
}

func NewGateway(client Client, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		MinDelay:   500 * time.Millisecond,
		MaxRetries: 5,
		Timeout:    30 * time.Second,
		Backoff:    ExponentialBackoff,
		Sleep:      sleepCtx,
		Now:        time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{
		client: client,
		opts:   opts,
		wake:   make(chan struct{}, 1),
	}
}

// Submit queues job and waits for its result. If ctx ends first the job
// still runs; only the caller stops waiting.
func (g *Gateway) Submit(ctx context.Context, job Job) (Result, error) {
	q := &queued{job: job, done: make(chan outcome, 1)}
	g.mu.Lock()
	g.queue = append(g.queue, q)
	depth := len(g.queue)
	g.mu.Unlock()
	select {
	case g.wake <- struct{}{}:
	default:
	}
	log.Debug().Str("module", "exec.gateway").Str("run_by", job.RunBy).Int("queue", depth).Msg("job queued")

	select {
	case o := <-q.done:
		return o.res, o.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (g *Gateway) Status() QueueStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return QueueStatus{QueueLength: len(g.queue), IsProcessing: g.processing}
}

// Run is the single worker. It returns when ctx is done, failing whatever
// is still queued with ErrStopped.
func (g *Gateway) Run(ctx context.Context) error {
	defer g.drain()
	for {
		q, ok := g.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-g.wake:
				continue
			}
		}
		res, err := g.process(ctx, q.job)
		g.finish()
		q.done <- outcome{res: res, err: err}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (g *Gateway) next() (*queued, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queue) == 0 {
		return nil, false
	}
	q := g.queue[0]
	g.queue = g.queue[1:]
	g.processing = true
	return q, true
}

func (g *Gateway) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.processing = false
	g.lastDone = g.opts.Now()
}

func (g *Gateway) drain() {
	g.mu.Lock()
	rest := g.queue
	g.queue = nil
	g.mu.Unlock()
	for _, q := range rest {
		q.done <- outcome{err: ErrStopped}
	}
}

func (g *Gateway) process(ctx context.Context, job Job) (Result, error) {
	g.mu.Lock()
	last := g.lastDone
	g.mu.Unlock()
	if !last.IsZero() {
		if wait := g.opts.MinDelay - g.opts.Now().Sub(last); wait > 0 {
			if err := g.opts.Sleep(ctx, wait); err != nil {
				return Result{}, err
			}
		}
	}
	sub := Submission{
		SourceCode: job.Language.Prepare(job.Source),
		LanguageID: job.Language.ID,
		Stdin:      job.Stdin,
	}
	start := g.opts.Now()
	res, err := g.dispatch(ctx, sub)
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("module", "exec.gateway").Str("run_by", job.RunBy).Str("language", job.Language.Name).Dur("took", g.opts.Now().Sub(start)).Msg("job finished")
	return res, err
}

func (g *Gateway) dispatch(ctx context.Context, sub Submission) (Result, error) {
	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
		res, err := g.client.Execute(callCtx, sub)
		cancel()
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrRateLimited) || attempt >= g.opts.MaxRetries {
			return Result{}, err
		}
		delay := g.opts.Backoff(attempt)
		log.Warn().Str("module", "exec.gateway").Int("attempt", attempt+1).Int("max", g.opts.MaxRetries).Dur("delay", delay).Msg("rate limited, backing off")
		if err := g.opts.Sleep(ctx, delay); err != nil {
			return Result{}, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
