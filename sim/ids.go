package sim

import (
	"fmt"
	"slices"
)

// ElementID identifies nodes and packages. Zero is never assigned to a package.
type ElementID uint64

// IDPool hands out package identifiers for one simulation session.
//
// Allocation rule: while no id has been freed, the next id is max(assigned)+1
// (1 for an empty pool). Once ids have been freed, the smallest freed id is
// reused first.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type IDPool struct {
	assigned map[ElementID]struct{}
	freed    []ElementID // sorted ascending
	max      ElementID   // largest assigned id; valid unless maxStale
	maxStale bool
}

// NewIDPool creates an empty pool whose first allocated id is 1.
func NewIDPool() *IDPool {
	return &IDPool{assigned: make(map[ElementID]struct{})}
}

// Allocate assigns a fresh id. Never fails.
func (p *IDPool) Allocate() ElementID {
	var id ElementID
	if len(p.freed) > 0 {
		id = p.freed[0]
		p.freed = p.freed[1:]
	} else {
		id = p.maxAssigned() + 1
	}
	p.assign(id)
	return id
}

// AllocatePreferring assigns the requested id. A live id yields
// ErrIdentityCollision; the pool never substitutes a different id.
func (p *IDPool) AllocatePreferring(id ElementID) (ElementID, error) {
	if id == 0 {
		return 0, fmt.Errorf("allocating package id 0: %w", ErrInvalidPackageID)
	}
	if p.IsAssigned(id) {
		return 0, fmt.Errorf("allocating package id %d: %w", id, ErrIdentityCollision)
	}
	if i, found := slices.BinarySearch(p.freed, id); found {
		p.freed = slices.Delete(p.freed, i, i+1)
	}
	p.assign(id)
	return id, nil
}

// Release returns a live id to the free set. Ids this pool did not assign, or
// already released, are ignored.
func (p *IDPool) Release(id ElementID) {
	if !p.IsAssigned(id) {
		return
	}
	delete(p.assigned, id)
	i, _ := slices.BinarySearch(p.freed, id)
	p.freed = slices.Insert(p.freed, i, id)
	if id == p.max {
		p.maxStale = true
	}
}

// IsAssigned reports whether id belongs to a live package.
func (p *IDPool) IsAssigned(id ElementID) bool {
	_, ok := p.assigned[id]
	return ok
}

// Len returns the number of live ids.
func (p *IDPool) Len() int {
	return len(p.assigned)
}

// Freed returns the freed ids in ascending order.
func (p *IDPool) Freed() []ElementID {
	return slices.Clone(p.freed)
}

func (p *IDPool) assign(id ElementID) {
	p.assigned[id] = struct{}{}
	if !p.maxStale && id > p.max {
		p.max = id
	}
}

func (p *IDPool) maxAssigned() ElementID {
	if p.maxStale {
		p.max = 0
		for id := range p.assigned {
			p.max = max(p.max, id)
		}
		p.maxStale = false
	}
	return p.max
}
