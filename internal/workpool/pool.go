// Package workpool provides the small fixed-size goroutine pool shared by
// every row-parallel codec, the LJPEG tile encoder, and the original-file
// compressor.
package workpool

import (
	"runtime"
	"sync"
)

// Pool runs submitted jobs over a fixed number of worker goroutines. The
// first error returned by any job is kept; later jobs still run to
// completion (there is no cancellation), but their results are discarded by
// the caller once Wait reports an error.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// New creates a Pool with n worker slots. n <= 0 defaults to
// runtime.GOMAXPROCS(0).
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{sem: make(chan struct{}, n)}
}

// Submit runs job on a worker slot, blocking the caller only if every slot
// is busy.
func (p *Pool) Submit(job func() error) {
	p.wg.Add(1)
	p.sem <- struct{}{}
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		if err := job(); err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
		}
	}()
}

// Wait blocks until every submitted job has returned and reports the first
// error encountered, in submission-completion order, or nil if every job
// succeeded.
func (p *Pool) Wait() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs[0]
}

// Run splits n items into row-groups of groupSize and runs fn(start, end)
// for each group across the pool, returning the first error.
func Run(p *Pool, n, groupSize int, fn func(start, end int) error) error {
	if groupSize <= 0 {
		groupSize = 1
	}
	for start := 0; start < n; start += groupSize {
		end := start + groupSize
		if end > n {
			end = n
		}
		s, e := start, end
		p.Submit(func() error { return fn(s, e) })
	}
	return p.Wait()
}
