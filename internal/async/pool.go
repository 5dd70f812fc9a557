package async

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// Analyzer is the part of core.Analyzer the pool needs.
type Analyzer interface {
	Analyze(ctx context.Context, doc entity.RawDocument) (*entity.AnalysisResult, error)
}

// Job is one document of a batch. Source is informational (usually the file path).
type Job struct {
	Source string
	Doc    entity.RawDocument
}

// Outcome is the result for the job at the same index.
type Outcome struct {
	Job      Job
	Result   *entity.AnalysisResult
	Err      error
	Duration time.Duration
}

// Pool analyses a batch of documents with a bounded number of workers.
type Pool struct {
	analyzer Analyzer
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithProcessTimeout bounds each document; zero disables the per-document timeout.
func WithProcessTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

func NewPool(analyzer Analyzer, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		analyzer: analyzer,
		logger:   logger,
		workers:  4,
		timeout:  30 * time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run analyses every job and returns outcomes in job order. A failing document
// does not stop the batch; only cancellation of ctx does, in which case the
// remaining jobs report the context error.
func (p *Pool) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	out := make([]Outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range jobs {
		i := i // per-iteration copy (go directive is 1.21, pre-loopvar semantics)
		out[i].Job = jobs[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			out[i] = p.process(gctx, i, jobs[i])
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	p.logger.Info("batch.done", "jobs", len(jobs), "failed", failed, "workers", p.workers)
	return out, ctx.Err()
}

func (p *Pool) process(ctx context.Context, i int, job Job) Outcome {
	ctx = common.WithRequestID(ctx, job.Source)
	ctx, cancel := common.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	res, err := p.analyzer.Analyze(ctx, job.Doc)
	o := Outcome{Job: job, Result: res, Err: err, Duration: time.Since(start)}
	if err != nil {
		p.logger.Error("batch.document.failed", "index", i, "source", job.Source, "err", err)
	} else {
		p.logger.Debug("batch.document.ok", "index", i, "source", job.Source, "elapsed_ms", o.Duration.Milliseconds())
	}
	return o
}
