// Implements the package containers: worker queues and storehouse stockpiles.

package sim

import (
	"fmt"
	"strings"
)

// QueueType selects the pop discipline of a PackageQueue.
type QueueType int

const (
	FIFO QueueType = iota
	LIFO
)

func (q QueueType) String() string {
	switch q {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	default:
		return fmt.Sprintf("QueueType(%d)", int(q))
	}
}

// ParseQueueType accepts "FIFO" or "LIFO" (case-insensitive).
func ParseQueueType(s string) (QueueType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIFO":
		return FIFO, nil
	case "LIFO":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown queue type %q: %w", s, ErrInvalidParameter)
	}
}

// Stockpile is a push-only package container. Storehouses accumulate their
// deliveries in one; nothing is ever popped from it.
type Stockpile interface {
	Push(p Package)
	Len() int
	IsEmpty() bool
	// IDs returns the held package ids from oldest to newest push.
	IDs() []ElementID
}

// Queue is a Stockpile that also supports Pop in its QueueType discipline.
type Queue interface {
	Stockpile
	// Pop removes the next package. Returns false on an empty queue.
	Pop() (Package, bool)
	Type() QueueType
}

// PackageQueue implements Queue over a slice ordered oldest to newest.
type PackageQueue struct {
	queueType QueueType
	packages  []Package
}

// NewPackageQueue creates an empty queue with the given discipline.
func NewPackageQueue(queueType QueueType) *PackageQueue {
	return &PackageQueue{queueType: queueType}
}

// Push appends p as the newest element. The queue owns p afterwards; callers
// hand it over with Move.
func (q *PackageQueue) Push(p Package) {
	q.packages = append(q.packages, p)
}

// Pop removes the oldest (FIFO) or newest (LIFO) package.
func (q *PackageQueue) Pop() (Package, bool) {
	n := len(q.packages)
	if n == 0 {
		return Package{}, false
	}
	var p Package
	if q.queueType == LIFO {
		p = q.packages[n-1].Move()
		q.packages = q.packages[:n-1]
	} else {
		p = q.packages[0].Move()
		q.packages = q.packages[1:]
	}
	return p, true
}

// Len returns the number of queued packages.
func (q *PackageQueue) Len() int {
	return len(q.packages)
}

// IsEmpty reports whether the queue holds no packages.
func (q *PackageQueue) IsEmpty() bool {
	return len(q.packages) == 0
}

// Type returns the pop discipline.
func (q *PackageQueue) Type() QueueType {
	return q.queueType
}

// IDs returns the queued ids, oldest first.
func (q *PackageQueue) IDs() []ElementID {
	ids := make([]ElementID, len(q.packages))
	for i := range q.packages {
		ids[i] = q.packages[i].ID()
	}
	return ids
}

// releaseAll destroys every held package.
func (q *PackageQueue) releaseAll() {
	for i := range q.packages {
		q.packages[i].Release()
	}
	q.packages = nil
}

func (q *PackageQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := range q.packages {
		sb.WriteString(q.packages[i].String())
		if i < len(q.packages)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
