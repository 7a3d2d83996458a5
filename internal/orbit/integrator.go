package orbit

import (
	"sync"

	"github.com/lox/deepfield/internal/chunk"
)

// Visitor walks resident chunks. *chunk.Store satisfies it.
type Visitor interface {
	Each(fn func(*chunk.Chunk))
}

// Integrator steps every resident chunk and keeps simulated time.
type Integrator struct {
	chunks Visitor

	mu      sync.Mutex
	elapsed float64
	moved   int
}

// NewIntegrator creates an integrator over chunks.
func NewIntegrator(chunks Visitor) *Integrator {
	return &Integrator{chunks: chunks}
}

// Advance moves every orbiting body by dt seconds and returns how many bodies
// moved. Non-positive dt leaves everything in place.
func (i *Integrator) Advance(dt float64) int {
	if dt <= 0 {
		return 0
	}
	moved := 0
	i.chunks.Each(func(c *chunk.Chunk) {
		moved += Step(c.Objects, dt)
	})

	i.mu.Lock()
	i.elapsed += dt
	i.moved += moved
	i.mu.Unlock()
	return moved
}

// Elapsed returns the total simulated seconds.
func (i *Integrator) Elapsed() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.elapsed
}

// Moved returns the total number of body updates so far.
func (i *Integrator) Moved() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.moved
}
