// Package worker runs the background analyzer pool that drains the
// submit-to-analyze queue.
package worker

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"triage_server/core/port/in"
	"triage_server/pkg/apperr"
)

const (
	defaultWorkers  = 4
	maxAttempts     = 3
	initialBackoff  = 2 * time.Second
	backoffMultiple = 2
)

// AnalyzerPool drains queued complaint ids and runs classification on them.
// Transient model outages are retried with exponential backoff; anything
// else is logged and dropped (the complaint stays in Analyzing and can be
// re-analyzed explicitly).
type AnalyzerPool struct {
	complaints in.ComplaintUseCase
	queue      <-chan int64
	workers    int

	log zerolog.Logger
	wg  sync.WaitGroup
}

// NewAnalyzerPool creates the pool. workers <= 0 selects the default size.
func NewAnalyzerPool(complaints in.ComplaintUseCase, queue <-chan int64, workers int) *AnalyzerPool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &AnalyzerPool{
		complaints: complaints,
		queue:      queue,
		workers:    workers,
		log: zerolog.New(os.Stdout).With().
			Timestamp().
			Str("component", "analyzer").
			Logger(),
	}
}

// Start launches the workers. They run until ctx is cancelled.
func (p *AnalyzerPool) Start(ctx context.Context) {
	p.log.Info().Int("workers", p.workers).Msg("analyzer pool starting")
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Wait blocks until all workers exited after cancellation.
func (p *AnalyzerPool) Wait() {
	p.wg.Wait()
	p.log.Info().Msg("analyzer pool stopped")
}

func (p *AnalyzerPool) run(ctx context.Context, worker int) {
	defer p.wg.Done()
	log := p.log.With().Int("worker", worker).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-p.queue:
			if !ok {
				return
			}
			p.analyze(ctx, log, id)
		}
	}
}

func (p *AnalyzerPool) analyze(ctx context.Context, log zerolog.Logger, id int64) {
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		c, err := p.complaints.Analyze(ctx, id)
		if err == nil {
			log.Info().
				Int64("complaint", id).
				Str("status", string(c.Status)).
				Msg("complaint analyzed")
			return
		}

		if !retryable(err) {
			log.Error().Err(err).Int64("complaint", id).Msg("analysis failed")
			return
		}
		if attempt == maxAttempts {
			log.Error().Err(err).Int64("complaint", id).
				Int("attempts", attempt).
				Msg("analysis exhausted retries, complaint left in analyzing state")
			return
		}

		log.Warn().Err(err).Int64("complaint", id).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("analysis unavailable, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= backoffMultiple
	}
}

func retryable(err error) bool {
	return apperr.IsCode(err, apperr.CodeScoringUnavailable) ||
		apperr.IsCode(err, apperr.CodeClassificationUnavailable) ||
		apperr.IsCode(err, apperr.CodeTimeout)
}
