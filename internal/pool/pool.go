package pool

import (
	"runtime"
	"sync"
)

// parallelizeAlone calculates the result of f count times on the current goroutine.
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command is used to trigger our latent workers to do something.
type command struct {
	// This is the index we evaluate our function at.
	i int
	f func(int) interface{}
	// This is the array where we put results.
	results []interface{}
	// done receives exactly one signal per completed command.
	done chan<- struct{}
}

// worker starts up a new worker, listening to commands, and producing results.
func worker(commands <-chan command) {
	for c := range commands {
		c.results[c.i] = c.f(c.i)
		c.done <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing functions.
//
// Functions taking a *Pool work with a nil receiver, doing the
// equivalent work on the current goroutine instead.
type Pool struct {
	commands chan command
	count    int
	teardown sync.Once
}

// NewPool creates a new pool with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		commands: make(chan command, count),
		count:    count,
	}
	for i := 0; i < count; i++ {
		go worker(p.commands)
	}
	return p
}

// TearDown cleanly tears down a pool, closing channels, and freeing the workers.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	p.teardown.Do(func() {
		close(p.commands)
	})
}

// Parallelize calculates f(0), …, f(count-1), distributing the work
// over the pool's workers.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}
	results := make([]interface{}, count)
	done := make(chan struct{}, count)

	issued := 0
	for ; issued < count && issued < p.count; issued++ {
		p.commands <- command{i: issued, f: f, results: results, done: done}
	}
	// Every command signals done exactly once, so draining count signals
	// means all results are in place.
	for received := 0; received < count; received++ {
		<-done
		if issued < count {
			p.commands <- command{i: issued, f: f, results: results, done: done}
			issued++
		}
	}
	return results
}
