package analysis

import (
	"context"
	"runtime"
	"sync"

	"github.com/devarajan8/veritas/internal/models"
	"github.com/rs/zerolog/log"
)

type Job interface {
	Execute(ctx context.Context) error
}

type WorkerPool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// creates a new worker pool with CPU-based sizing
func NewWorkerPool(ctx context.Context) *WorkerPool {
	totalCPU := runtime.NumCPU()
	systemReserve := max(1, totalCPU/4) // Reserve 1/4 of the CPU for system processes
	size := max(1, totalCPU-systemReserve)
	log.Info().
		Int("totalCPU", totalCPU).
		Int("systemReserve", systemReserve).
		Int("workers", size).
		Msg("Worker pool initialized")
	poolCtx, cancel := context.WithCancel(ctx)

	pool := &WorkerPool{
		workers:  size,
		jobQueue: make(chan Job, size*2),
		ctx:      poolCtx,
		cancel:   cancel,
	}

	pool.start()

	return pool
}

func (p *WorkerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			if err := job.Execute(p.ctx); err != nil {
				log.Error().Err(err).Msg("Worker failed to execute job")
			}
		}
	}
}

// Submit queues a job on the pool.
func (p *WorkerPool) Submit(job Job) error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- job:
		return nil
	}
}

// Close drains the pool and waits for all workers to finish.
func (p *WorkerPool) Close() {
	close(p.jobQueue)
	p.cancel()
	p.wg.Wait()
}

func (p *WorkerPool) Size() int {
	return p.workers
}

// AnalysisJob runs one pipeline pass on a pool worker and delivers the
// result on ResultChan.
type AnalysisJob struct {
	Input      Input
	Config     AnalysisConfig
	ResultChan chan<- *models.AnalysisResult
	DoneChan   chan<- struct{}
}

// Execute runs the job's analysis
func (j *AnalysisJob) Execute(ctx context.Context) error {
	defer func() {
		select {
		case j.DoneChan <- struct{}{}:
		default:
		}
	}()

	result, err := Run(ctx, j.Input, j.Config)
	if err != nil && result == nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case j.ResultChan <- result:
		return nil
	}
}
