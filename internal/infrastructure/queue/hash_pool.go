package queue

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindmax/mood-journal/internal/api/metrics"
	"github.com/mindmax/mood-journal/internal/core/domain"
)

const channelBuffer = 256

// ErrPoolClosed is returned for jobs submitted after Stop.
var ErrPoolClosed = errors.New("hash pool stopped")

type jobKind int

const (
	jobHash jobKind = iota
	jobCompare
)

type hashJob struct {
	kind     jobKind
	password string
	hash     string
	result   chan hashResult
}

type hashResult struct {
	hash string
	err  error
}

// HashPool runs bcrypt work on a fixed set of workers so password hashing
// cannot occupy more than numWorkers CPUs regardless of request load.
type HashPool struct {
	jobs       chan hashJob
	cost       int
	numWorkers int
	log        zerolog.Logger

	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers hashing at the given bcrypt
// cost. If numWorkers <= 0, runtime.NumCPU() is used.
func NewHashPool(numWorkers, cost int, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &HashPool{
		jobs:       make(chan hashJob, channelBuffer),
		cost:       cost,
		numWorkers: numWorkers,
		log:        log,
		quit:       make(chan struct{}),
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// Stop is called.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
}

// Stop signals the workers to exit and waits for in-flight jobs to finish.
func (p *HashPool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}

// Hash returns the bcrypt hash of password.
func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	res, err := p.submit(ctx, hashJob{kind: jobHash, password: password})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

// Compare returns domain.ErrInvalidCredentials when password does not match hash.
func (p *HashPool) Compare(ctx context.Context, hash, password string) error {
	res, err := p.submit(ctx, hashJob{kind: jobCompare, hash: hash, password: password})
	if err != nil {
		return err
	}
	return res.err
}

func (p *HashPool) submit(ctx context.Context, job hashJob) (hashResult, error) {
	job.result = make(chan hashResult, 1)

	select {
	case <-p.quit:
		return hashResult{}, ErrPoolClosed
	default:
	}

	select {
	case p.jobs <- job:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	case <-p.quit:
		return hashResult{}, ErrPoolClosed
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	}

	select {
	case res := <-job.result:
		return res, nil
	case <-p.quit:
		return hashResult{}, ErrPoolClosed
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.quit:
			return
		case job := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			job.result <- p.process(job, id)
		}
	}
}

func (p *HashPool) process(job hashJob, workerID int) hashResult {
	start := time.Now()

	switch job.kind {
	case jobHash:
		b, err := bcrypt.GenerateFromPassword([]byte(job.password), p.cost)
		metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
		if err != nil {
			p.log.Error().Err(err).Int("worker_id", workerID).Msg("password hashing failed")
			return hashResult{err: fmt.Errorf("bcrypt: %w", err)}
		}
		return hashResult{hash: string(b)}

	default:
		err := bcrypt.CompareHashAndPassword([]byte(job.hash), []byte(job.password))
		metrics.PasswordHashDuration.WithLabelValues("compare").Observe(time.Since(start).Seconds())
		switch {
		case err == nil:
			return hashResult{}
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return hashResult{err: domain.ErrInvalidCredentials}
		default:
			p.log.Error().Err(err).Int("worker_id", workerID).Msg("password comparison failed")
			return hashResult{err: fmt.Errorf("bcrypt: %w", err)}
		}
	}
}
