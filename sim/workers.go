// SPDX-License-Identifier: MIT

package sim

import (
	"sync"

	"github.com/katalvlaran/citysim/network"
)

// chunkFunc processes items [lo, hi) with worker-local scratch.
type chunkFunc func(lo, hi int, scratch []network.TrainID)

type chunk struct {
	lo, hi int
	fn     chunkFunc
	wg     *sync.WaitGroup
}

// workerPool is a fixed set of goroutines that each take one contiguous
// chunk per round.
type workerPool struct {
	n    int
	jobs chan chunk
	exit sync.WaitGroup
	once sync.Once
}

func newWorkerPool(n int) *workerPool {
	p := &workerPool{n: n, jobs: make(chan chunk)}
	p.exit.Add(n)
	for i := 0; i < n; i++ {
		go p.loop()
	}

	return p
}

func (p *workerPool) loop() {
	defer p.exit.Done()
	scratch := make([]network.TrainID, 0, network.MaxDockedTrains)
	for c := range p.jobs {
		c.fn(c.lo, c.hi, scratch)
		c.wg.Done()
	}
}

// run splits [0, total) into at most n disjoint contiguous chunks and blocks
// until every chunk is done.
func (p *workerPool) run(total int, fn chunkFunc) {
	if total == 0 {
		return
	}
	size := (total + p.n - 1) / p.n
	var wg sync.WaitGroup
	for lo := 0; lo < total; lo += size {
		wg.Add(1)
		p.jobs <- chunk{lo: lo, hi: min(lo+size, total), fn: fn, wg: &wg}
	}
	wg.Wait()
}

// close stops the goroutines and waits for them.
func (p *workerPool) close() {
	p.once.Do(func() {
		close(p.jobs)
		p.exit.Wait()
	})
}
