package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/api/metrics"
	"github.com/blogsphere/blog-api/internal/core/auth"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrPoolClosed is returned for jobs submitted after Stop.
var ErrPoolClosed = errors.New("hash pool closed")

type jobKind int

const (
	jobHash jobKind = iota
	jobVerify
)

type hashJob struct {
	kind      jobKind
	ctx       context.Context
	plaintext string
	hash      string
	result    chan<- hashResult
}

type hashResult struct {
	hash string
	ok   bool
	err  error
}

// HashPool runs password hashing on a fixed set of workers so the deliberately
// slow bcrypt work does not run on request goroutines. Jobs are spread
// round-robin; there is no ordering guarantee between jobs.
type HashPool struct {
	hasher  auth.PasswordHasher
	workers []chan hashJob
	next    atomic.Uint32
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHashPool(numWorkers int, hasher auth.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	p := &HashPool{
		hasher:  hasher,
		workers: make([]chan hashJob, numWorkers),
		log:     log,
	}
	for i := range p.workers {
		p.workers[i] = make(chan hashJob, channelBuffer)
	}
	return p
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// Stop is called.
func (p *HashPool) Start(ctx context.Context) {
	for i, ch := range p.workers {
		p.wg.Add(1)
		go p.runWorker(ctx, i, ch)
	}
}

// Stop closes the job channels and waits for in-flight jobs to finish.
func (p *HashPool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, ch := range p.workers {
		close(ch)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Hash satisfies auth.PasswordHasher.
func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	res, err := p.submit(ctx, hashJob{kind: jobHash, plaintext: plaintext})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

// Verify satisfies auth.PasswordHasher. Any pool failure counts as a mismatch.
func (p *HashPool) Verify(ctx context.Context, plaintext, hash string) bool {
	res, err := p.submit(ctx, hashJob{kind: jobVerify, plaintext: plaintext, hash: hash})
	if err != nil {
		p.log.Warn().Err(err).Msg("password verification not completed")
		return false
	}
	return res.ok
}

func (p *HashPool) submit(ctx context.Context, job hashJob) (hashResult, error) {
	result := make(chan hashResult, 1)
	job.ctx = ctx
	job.result = result

	idx := p.nextWorker()

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return hashResult{}, ErrPoolClosed
	}
	select {
	case p.workers[idx] <- job:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return hashResult{}, ctx.Err()
	}
	metrics.HashQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(p.workers[idx])))

	select {
	case res := <-result:
		return res, nil
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	}
}

func (p *HashPool) nextWorker() int {
	return int((p.next.Add(1) - 1) % uint32(len(p.workers)))
}

func (p *HashPool) runWorker(ctx context.Context, id int, ch <-chan hashJob) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.HashQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			job.result <- p.run(id, job)
		}
	}
}

func (p *HashPool) run(id int, job hashJob) hashResult {
	if err := job.ctx.Err(); err != nil {
		return hashResult{err: err}
	}

	start := time.Now()
	var res hashResult
	op := "hash"
	switch job.kind {
	case jobHash:
		res.hash, res.err = p.hasher.Hash(job.ctx, job.plaintext)
	case jobVerify:
		op = "verify"
		res.ok = p.hasher.Verify(job.ctx, job.plaintext, job.hash)
	}
	metrics.PasswordHashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if res.err != nil {
		p.log.Error().Err(res.err).Int("worker_id", id).Msg("password hashing failed")
	}
	return res
}
