package sim

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// Link is one routing edge of the network.
type Link struct {
	Src NodeRef
	Dst NodeRef
}

func (l Link) String() string {
	return fmt.Sprintf("%s -> %s", l.Src, l.Dst)
}

// Network holds the ramps, workers and storehouses of one simulation session,
// the routing edges between them, and the IDPool their packages draw from.
//
// Node collections keep creation order; the simulator visits nodes in that
// order. Routing edges name receivers by NodeRef and are resolved through the
// network, so removing a node only needs its incoming edges purged.
type Network struct {
	pool        *IDPool
	generatorFn func(sender NodeRef) ProbabilityGenerator
	ramps       []*Ramp
	workers     []*Worker
	storehouses []*Storehouse
}

// NewNetwork creates an empty network whose routing tables draw from a
// PartitionedRNG keyed by key, one subsystem per sender.
func NewNetwork(key SimulationKey) *Network {
	rng := NewPartitionedRNG(key)
	return NewNetworkWithGenerators(func(sender NodeRef) ProbabilityGenerator {
		return rng.Generator(SubsystemRouter(sender))
	})
}

// NewNetworkWithGenerators creates an empty network; generatorFn supplies the
// probability source of each sender's routing table when the sender is added.
func NewNetworkWithGenerators(generatorFn func(sender NodeRef) ProbabilityGenerator) *Network {
	if generatorFn == nil {
		panic("NewNetworkWithGenerators: generatorFn must not be nil")
	}
	return &Network{
		pool:        NewIDPool(),
		generatorFn: generatorFn,
	}
}

// Pool returns the IDPool packages of this network draw from.
func (n *Network) Pool() *IDPool {
	return n.pool
}

// === Construction ===

// AddRamp adds a ramp generating a package every interval ticks.
func (n *Network) AddRamp(id ElementID, interval TimeOffset) (*Ramp, error) {
	if _, ok := n.Ramp(id); ok {
		return nil, fmt.Errorf("adding %s: %w", RampRef(id), ErrDuplicateNode)
	}
	if interval < 1 {
		return nil, fmt.Errorf("adding %s: delivery interval must be >= 1, got %d: %w", RampRef(id), interval, ErrInvalidParameter)
	}
	r := NewRamp(id, interval, n.pool, n.generatorFn(RampRef(id)))
	n.ramps = append(n.ramps, r)
	logrus.Debugf("network: added %s (delivery interval %d)", r.Ref(), interval)
	return r, nil
}

// AddWorker adds a worker with the given processing duration and queue discipline.
func (n *Network) AddWorker(id ElementID, duration TimeOffset, queueType QueueType) (*Worker, error) {
	if _, ok := n.Worker(id); ok {
		return nil, fmt.Errorf("adding %s: %w", WorkerRef(id), ErrDuplicateNode)
	}
	if duration < 1 {
		return nil, fmt.Errorf("adding %s: processing time must be >= 1, got %d: %w", WorkerRef(id), duration, ErrInvalidParameter)
	}
	if queueType != FIFO && queueType != LIFO {
		return nil, fmt.Errorf("adding %s: %v: %w", WorkerRef(id), queueType, ErrInvalidParameter)
	}
	w := NewWorker(id, duration, NewPackageQueue(queueType), n.generatorFn(WorkerRef(id)))
	n.workers = append(n.workers, w)
	logrus.Debugf("network: added %s (processing time %d, %v)", w.Ref(), duration, queueType)
	return w, nil
}

// AddStorehouse adds a storehouse.
func (n *Network) AddStorehouse(id ElementID) (*Storehouse, error) {
	if _, ok := n.Storehouse(id); ok {
		return nil, fmt.Errorf("adding %s: %w", StoreRef(id), ErrDuplicateNode)
	}
	s := NewStorehouse(id, nil)
	n.storehouses = append(n.storehouses, s)
	logrus.Debugf("network: added %s", s.Ref())
	return s, nil
}

// RemoveRamp removes a ramp and destroys the package in its output buffer.
func (n *Network) RemoveRamp(id ElementID) bool {
	i := slices.IndexFunc(n.ramps, func(r *Ramp) bool { return r.id == id })
	if i < 0 {
		return false
	}
	n.ramps[i].release()
	n.ramps = slices.Delete(n.ramps, i, i+1)
	logrus.Debugf("network: removed %s", RampRef(id))
	return true
}

// RemoveWorker removes a worker, purges every link pointing at it, and
// destroys the packages it still holds.
func (n *Network) RemoveWorker(id ElementID) bool {
	i := slices.IndexFunc(n.workers, func(w *Worker) bool { return w.id == id })
	if i < 0 {
		return false
	}
	n.workers[i].release()
	n.workers = slices.Delete(n.workers, i, i+1)
	n.purgeLinksTo(WorkerRef(id))
	logrus.Debugf("network: removed %s", WorkerRef(id))
	return true
}

// RemoveStorehouse removes a storehouse, purges every link pointing at it, and
// destroys its stock.
func (n *Network) RemoveStorehouse(id ElementID) bool {
	i := slices.IndexFunc(n.storehouses, func(s *Storehouse) bool { return s.id == id })
	if i < 0 {
		return false
	}
	n.storehouses[i].release()
	n.storehouses = slices.Delete(n.storehouses, i, i+1)
	n.purgeLinksTo(StoreRef(id))
	logrus.Debugf("network: removed %s", StoreRef(id))
	return true
}

// AddLink adds a routing edge from a ramp or worker to a worker or storehouse.
// The receiver joins the sender's routing table under the incremental weight
// rule. Adding an existing link is a no-op.
func (n *Network) AddLink(src, dst NodeRef) error {
	if !src.Kind.IsSender() || !dst.Kind.IsReceiver() {
		return fmt.Errorf("linking %s to %s: %w", src, dst, ErrInvalidLink)
	}
	s, ok := n.sender(src)
	if !ok {
		return fmt.Errorf("linking %s to %s: sender: %w", src, dst, ErrUnknownNode)
	}
	if _, ok := n.Receiver(dst); !ok {
		return fmt.Errorf("linking %s to %s: receiver: %w", src, dst, ErrUnknownNode)
	}
	s.prefs.Add(dst)
	logrus.Debugf("network: linked %s -> %s", src, dst)
	return nil
}

// RemoveLink removes a routing edge; the remaining weights are rescaled.
func (n *Network) RemoveLink(src, dst NodeRef) error {
	s, ok := n.sender(src)
	if !ok {
		return fmt.Errorf("unlinking %s from %s: sender: %w", src, dst, ErrUnknownNode)
	}
	if !s.prefs.Remove(dst) {
		return fmt.Errorf("unlinking %s from %s: no such link: %w", src, dst, ErrInvalidLink)
	}
	logrus.Debugf("network: unlinked %s -> %s", src, dst)
	return nil
}

func (n *Network) purgeLinksTo(dst NodeRef) {
	for _, r := range n.ramps {
		if r.prefs.Remove(dst) {
			logrus.Debugf("network: purged link %s -> %s", r.Ref(), dst)
		}
	}
	for _, w := range n.workers {
		if w.prefs.Remove(dst) {
			logrus.Debugf("network: purged link %s -> %s", w.Ref(), dst)
		}
	}
}

// === Lookup ===

// Ramp returns the ramp with the given id.
func (n *Network) Ramp(id ElementID) (*Ramp, bool) {
	for _, r := range n.ramps {
		if r.id == id {
			return r, true
		}
	}
	return nil, false
}

// Worker returns the worker with the given id.
func (n *Network) Worker(id ElementID) (*Worker, bool) {
	for _, w := range n.workers {
		if w.id == id {
			return w, true
		}
	}
	return nil, false
}

// Storehouse returns the storehouse with the given id.
func (n *Network) Storehouse(id ElementID) (*Storehouse, bool) {
	for _, s := range n.storehouses {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// Receiver implements ReceiverLookup.
func (n *Network) Receiver(ref NodeRef) (Receiver, bool) {
	switch ref.Kind {
	case KindWorker:
		if w, ok := n.Worker(ref.ID); ok {
			return w, true
		}
	case KindStorehouse:
		if s, ok := n.Storehouse(ref.ID); ok {
			return s, true
		}
	}
	return nil, false
}

// Sender returns the ramp or worker behind ref.
func (n *Network) Sender(ref NodeRef) (PackageSender, bool) {
	s, ok := n.sender(ref)
	if !ok {
		return nil, false
	}
	return s, true
}

func (n *Network) sender(ref NodeRef) (*Sender, bool) {
	switch ref.Kind {
	case KindRamp:
		if r, ok := n.Ramp(ref.ID); ok {
			return &r.Sender, true
		}
	case KindWorker:
		if w, ok := n.Worker(ref.ID); ok {
			return &w.Sender, true
		}
	}
	return nil, false
}

// === Iteration ===

// Ramps returns the ramps in creation order.
func (n *Network) Ramps() []*Ramp {
	return slices.Clone(n.ramps)
}

// Workers returns the workers in creation order.
func (n *Network) Workers() []*Worker {
	return slices.Clone(n.workers)
}

// Storehouses returns the storehouses in creation order.
func (n *Network) Storehouses() []*Storehouse {
	return slices.Clone(n.storehouses)
}

// Links returns every routing edge: ramps first, then workers, each in
// creation order, receivers in routing-table order.
func (n *Network) Links() []Link {
	var links []Link
	for _, r := range n.ramps {
		for _, dst := range r.prefs.Receivers() {
			links = append(links, Link{Src: r.Ref(), Dst: dst})
		}
	}
	for _, w := range n.workers {
		for _, dst := range w.prefs.Receivers() {
			links = append(links, Link{Src: w.Ref(), Dst: dst})
		}
	}
	return links
}
