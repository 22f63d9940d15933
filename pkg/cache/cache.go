// Package cache implements the compiled-expression cache named as a
// supplemented feature in the core's design: a lookup from a DAG's
// structural hash to its already-linearized program, so a query plan that
// re-derives an identical expression DAG across blocks or query
// invocations doesn't pay the linearization cost twice. Grounded on the
// teacher's pkg/util.ReentryLock (petermattis/goid-based recursive mutex),
// reused here to guard the map since both the planner and, in principle,
// a background eviction pass could touch it from the same goroutine.
package cache

import (
	"strings"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/program"
	"github.com/ArtCorp/exprdag/pkg/util"
)

// Key identifies a compiled program by its DAG's structural hash plus the
// output column list it was linearized for — two DAGs with the same shape
// but different requested outputs are different cache entries.
type Key struct {
	Hash    actions.ActionHash
	Outputs string
}

// KeyFor derives a Key from dag as it stands right before linearization
// (i.e. after its outputs are fixed via SetOutputs).
func KeyFor(dag *actions.DAG) Key {
	outs := dag.Outputs()
	h := actions.ActionHash{}
	for i, n := range outs {
		nh := actions.Hash(n)
		if i == 0 {
			h = nh
			continue
		}
		h.Lo ^= nh.Lo
		h.Hi ^= nh.Hi
	}
	return Key{Hash: h, Outputs: strings.Join(dag.OutputNames(), ",")}
}

// Cache is the compiled-program cache interface; Get reports a hit/miss,
// Put stores a freshly linearized program.
type Cache interface {
	Get(k Key) (*program.Program, bool)
	Put(k Key, p *program.Program)
}

// InMemory is the one Cache implementation this core ships: a
// ReentryLock-guarded map with no eviction policy, appropriate for the
// "pluggable accelerator" framing of §1 — a JIT-backed Cache would satisfy
// the same interface without touching pkg/exec or pkg/program.
type InMemory struct {
	lock    *util.ReentryLock
	entries map[Key]*program.Program
}

func NewInMemory() *InMemory {
	return &InMemory{lock: util.NewReentryLock(), entries: map[Key]*program.Program{}}
}

func (c *InMemory) Get(k Key) (*program.Program, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	p, ok := c.entries[k]
	return p, ok
}

func (c *InMemory) Put(k Key, p *program.Program) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[k] = p
}

var _ Cache = (*InMemory)(nil)
