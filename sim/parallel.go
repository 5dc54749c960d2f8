package sim

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// stepRockets advances every rocket by one tick.
// Rocket updates share no mutable state and draw no randomness, so chunked
// parallel stepping gives the same result as the sequential loop.
func (p *Population) stepRockets() error {
	n := len(p.rockets)
	threshold := p.params.ParallelThreshold
	if threshold <= 0 || n < threshold {
		for _, r := range p.rockets {
			if err := r.Update(); err != nil {
				return err
			}
		}
		return nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	chunkSize := (n + numWorkers - 1) / numWorkers

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		chunk := p.rockets[start:end]
		g.Go(func() error {
			for _, r := range chunk {
				if err := r.Update(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
