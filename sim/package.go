// Defines the Package token that flows through the network.
// A Package carries nothing but its identifier, drawn from an IDPool.

package sim

import "fmt"

// Package is a move-only token. At most one holder owns a given id at a time:
// hand a package over with Move, which leaves the source empty, and destroy it
// with Release, which returns the id to its pool. The zero value is an empty
// package.
type Package struct {
	id   ElementID
	pool *IDPool
}

// NewPackage creates a package with the next id from pool.
func NewPackage(pool *IDPool) Package {
	if pool == nil {
		panic("NewPackage: pool must not be nil")
	}
	return Package{id: pool.Allocate(), pool: pool}
}

// NewPackageWithID creates a package holding exactly id.
// Returns ErrIdentityCollision if a live package already holds id.
func NewPackageWithID(pool *IDPool, id ElementID) (Package, error) {
	if pool == nil {
		panic("NewPackageWithID: pool must not be nil")
	}
	got, err := pool.AllocatePreferring(id)
	if err != nil {
		return Package{}, err
	}
	return Package{id: got, pool: pool}, nil
}

// ID returns the package identifier, 0 for an empty package.
func (p *Package) ID() ElementID {
	return p.id
}

// IsEmpty reports whether the package was moved from, released, or never built.
func (p *Package) IsEmpty() bool {
	return p.pool == nil
}

// Move transfers ownership to the returned value and empties p.
func (p *Package) Move() Package {
	moved := *p
	*p = Package{}
	return moved
}

// Release destroys the package: a non-empty package gives its id back to the
// pool. Releasing an empty package is a no-op.
func (p *Package) Release() {
	if p.pool != nil {
		p.pool.Release(p.id)
	}
	*p = Package{}
}

func (p Package) String() string {
	if p.pool == nil {
		return "(empty)"
	}
	return fmt.Sprintf("#%d", p.id)
}
