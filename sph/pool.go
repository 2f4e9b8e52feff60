package sph

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum molecule count to use the worker pool.
// Below this, running inline is faster than dispatching.
const parallelThreshold = 64

// DefaultWorkers returns half the host's logical CPUs, at least one.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()/2)
}

// stride describes the molecules one worker handles in a phase:
// first, first+step, first+2*step, ...
type stride struct {
	worker int
	first  int
	step   int
}

// phaseFunc processes one stride using the scratch of the given worker.
type phaseFunc func(s stride)

type job struct {
	run phaseFunc
	s   stride
}

// workerPool runs phases on persistent goroutines. Each phase is split into
// one interleaved stride per worker and run blocks until all strides finish.
type workerPool struct {
	numWorkers int

	workChan chan job      // sends strides to workers
	doneChan chan struct{} // workers signal completion
	stopChan chan struct{} // signals workers to exit
	wg       sync.WaitGroup
	running  bool
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &workerPool{numWorkers: numWorkers}
}

// start launches the worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan job, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case j, ok := <-p.workChan:
			if !ok {
				return
			}
			j.run(j.s)
			p.doneChan <- struct{}{}
		}
	}
}

// run executes fn over n molecules and returns once every stride is done.
// Small workloads, and pools of one, run on the calling goroutine with the
// same stride layout.
func (p *workerPool) run(n int, fn phaseFunc) {
	if n < parallelThreshold || p.numWorkers == 1 {
		for w := 0; w < p.numWorkers && w < n; w++ {
			fn(stride{worker: w, first: w, step: p.numWorkers})
		}
		return
	}

	if !p.running {
		p.start()
	}

	dispatched := 0
	for w := 0; w < p.numWorkers && w < n; w++ {
		p.workChan <- job{run: fn, s: stride{worker: w, first: w, step: p.numWorkers}}
		dispatched++
	}

	// Barrier
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
