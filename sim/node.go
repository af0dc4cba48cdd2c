// Defines the three node kinds of the network and the capabilities they share.
// Ramps originate packages, Workers process them, Storehouses collect them.
// A Worker is both a Receiver and a sender; it composes a Sender and a Queue
// rather than inheriting from them.

package sim

import (
	"cmp"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Time is a tick number. The first tick of a run is 1.
type Time int64

// TimeOffset is a duration in ticks.
type TimeOffset int64

// NodeKind tags the three node variants.
type NodeKind int

const (
	KindRamp NodeKind = iota
	KindWorker
	KindStorehouse
)

func (k NodeKind) String() string {
	switch k {
	case KindRamp:
		return "ramp"
	case KindWorker:
		return "worker"
	case KindStorehouse:
		return "store"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// IsSender reports whether nodes of this kind own an output buffer and links.
func (k NodeKind) IsSender() bool {
	return k == KindRamp || k == KindWorker
}

// IsReceiver reports whether nodes of this kind accept packages.
func (k NodeKind) IsReceiver() bool {
	return k == KindWorker || k == KindStorehouse
}

// NodeRef is a stable handle to a node: its kind and id. Routing edges hold
// NodeRefs, never the nodes themselves.
type NodeRef struct {
	Kind NodeKind
	ID   ElementID
}

// RampRef returns the handle of ramp id.
func RampRef(id ElementID) NodeRef { return NodeRef{Kind: KindRamp, ID: id} }

// WorkerRef returns the handle of worker id.
func WorkerRef(id ElementID) NodeRef { return NodeRef{Kind: KindWorker, ID: id} }

// StoreRef returns the handle of storehouse id.
func StoreRef(id ElementID) NodeRef { return NodeRef{Kind: KindStorehouse, ID: id} }

// String renders the ref as used by LINK records, e.g. "worker-3".
func (r NodeRef) String() string {
	return fmt.Sprintf("%s-%d", r.Kind, r.ID)
}

// Compare orders refs by kind, then id.
func (r NodeRef) Compare(other NodeRef) int {
	if c := cmp.Compare(r.Kind, other.Kind); c != 0 {
		return c
	}
	return cmp.Compare(r.ID, other.ID)
}

// Receiver accepts packages from senders.
type Receiver interface {
	Ref() NodeRef
	// Receive takes ownership of p.
	Receive(p Package)
}

// ReceiverLookup resolves routing edges to receivers.
type ReceiverLookup interface {
	Receiver(ref NodeRef) (Receiver, bool)
}

// PackageSender is the read-only face of a node that sends packages.
type PackageSender interface {
	Ref() NodeRef
	Preferences() []Preference
	SendingBuffer() (ElementID, bool)
}

// PackageView is a read-only view of a package container.
type PackageView interface {
	Len() int
	IsEmpty() bool
	IDs() []ElementID
}

// Delivery describes one package handed from a sender to a receiver.
type Delivery struct {
	Package  ElementID
	Sender   NodeRef
	Receiver NodeRef
}

// === Sender ===

// Sender is the sending capability shared by ramps and workers: a one-slot
// output buffer drained through a routing table.
type Sender struct {
	ref    NodeRef
	prefs  *ReceiverPreferences
	buffer Package
}

func newSender(ref NodeRef, gen ProbabilityGenerator) Sender {
	return Sender{ref: ref, prefs: NewReceiverPreferences(gen)}
}

// Ref returns the sender's handle.
func (s *Sender) Ref() NodeRef {
	return s.ref
}

// Preferences returns the routing entries in choice order.
func (s *Sender) Preferences() []Preference {
	return s.prefs.Preferences()
}

// SendingBuffer returns the id of the package waiting to be sent, if any.
func (s *Sender) SendingBuffer() (ElementID, bool) {
	if s.buffer.IsEmpty() {
		return 0, false
	}
	return s.buffer.ID(), true
}

// push places p in the output buffer. A package still sitting there is
// destroyed.
func (s *Sender) push(p Package) {
	if !s.buffer.IsEmpty() {
		logrus.Warnf("%s: output buffer overwritten, dropping package %d", s.ref, s.buffer.ID())
		s.buffer.Release()
	}
	s.buffer = p
}

// flush hands the buffered package to a receiver chosen by the routing table.
// Returns false when the buffer was empty. On error the package stays buffered.
func (s *Sender) flush(lookup ReceiverLookup) (Delivery, bool, error) {
	if s.buffer.IsEmpty() {
		return Delivery{}, false, nil
	}
	ref, err := s.prefs.Choose()
	if err != nil {
		return Delivery{}, false, fmt.Errorf("%s flushing package %d: %w", s.ref, s.buffer.ID(), err)
	}
	r, ok := lookup.Receiver(ref)
	if !ok {
		return Delivery{}, false, fmt.Errorf("%s flushing package %d to %s: %w", s.ref, s.buffer.ID(), ref, ErrUnknownReceiver)
	}
	d := Delivery{Package: s.buffer.ID(), Sender: s.ref, Receiver: ref}
	r.Receive(s.buffer.Move())
	return d, true, nil
}

func (s *Sender) release() {
	s.buffer.Release()
}

// === Ramp ===

// Ramp originates one package every delivery interval.
type Ramp struct {
	Sender
	id       ElementID
	interval TimeOffset
	pool     *IDPool
}

// NewRamp creates a ramp drawing package ids from pool.
func NewRamp(id ElementID, interval TimeOffset, pool *IDPool, gen ProbabilityGenerator) *Ramp {
	if pool == nil {
		panic("NewRamp: pool must not be nil")
	}
	if interval < 1 {
		panic(fmt.Sprintf("NewRamp: delivery interval must be >= 1, got %d", interval))
	}
	return &Ramp{
		Sender:   newSender(RampRef(id), gen),
		id:       id,
		interval: interval,
		pool:     pool,
	}
}

// ID returns the ramp id.
func (r *Ramp) ID() ElementID {
	return r.id
}

// DeliveryInterval returns the number of ticks between generated packages.
func (r *Ramp) DeliveryInterval() TimeOffset {
	return r.interval
}

// DeliverGoods generates a package on ticks 1, 1+interval, 1+2*interval, ...
// Reports whether a package was generated.
func (r *Ramp) DeliverGoods(t Time) bool {
	if (t-1)%Time(r.interval) != 0 {
		return false
	}
	r.push(NewPackage(r.pool))
	return true
}

// === Worker ===

// Worker processes packages one at a time: queue, then processing slot for
// the processing duration, then output buffer.
type Worker struct {
	Sender
	id         ElementID
	duration   TimeOffset
	queue      Queue
	processing Package
	startTime  Time
}

// NewWorker creates a worker backed by queue.
func NewWorker(id ElementID, duration TimeOffset, queue Queue, gen ProbabilityGenerator) *Worker {
	if queue == nil {
		panic("NewWorker: queue must not be nil")
	}
	if duration < 1 {
		panic(fmt.Sprintf("NewWorker: processing duration must be >= 1, got %d", duration))
	}
	return &Worker{
		Sender:   newSender(WorkerRef(id), gen),
		id:       id,
		duration: duration,
		queue:    queue,
	}
}

// ID returns the worker id.
func (w *Worker) ID() ElementID {
	return w.id
}

// ProcessingDuration returns the number of ticks a package spends in processing.
func (w *Worker) ProcessingDuration() TimeOffset {
	return w.duration
}

// QueueType returns the discipline of the backing queue.
func (w *Worker) QueueType() QueueType {
	return w.queue.Type()
}

// Queue returns a read-only view of the backing queue.
func (w *Worker) Queue() PackageView {
	return w.queue
}

// ProcessingBuffer returns the id of the package being processed, if any.
func (w *Worker) ProcessingBuffer() (ElementID, bool) {
	if w.processing.IsEmpty() {
		return 0, false
	}
	return w.processing.ID(), true
}

// StartTime returns the tick at which the current (or last) package was loaded.
func (w *Worker) StartTime() Time {
	return w.startTime
}

// Receive enqueues p. It does not consume the worker's turn.
func (w *Worker) Receive(p Package) {
	w.queue.Push(p)
}

// DoWork advances the processing pipeline for tick t.
//
// With a processing duration of 1 the next queued package goes straight to the
// output buffer. Otherwise an idle processing slot is loaded from the queue,
// and a package that has occupied the slot for duration ticks moves to the
// output buffer.
func (w *Worker) DoWork(t Time) {
	if w.duration == 1 {
		if p, ok := w.queue.Pop(); ok {
			w.push(p)
			w.startTime = t
		}
		return
	}
	if w.processing.IsEmpty() {
		if p, ok := w.queue.Pop(); ok {
			w.processing = p
			w.startTime = t
		}
	}
	if !w.processing.IsEmpty() && t-w.startTime == Time(w.duration-1) {
		w.push(w.processing.Move())
	}
}

func (w *Worker) release() {
	w.Sender.release()
	w.processing.Release()
	for {
		p, ok := w.queue.Pop()
		if !ok {
			break
		}
		p.Release()
	}
}

// === Storehouse ===

// Storehouse is a terminal receiver accumulating packages in a stockpile.
type Storehouse struct {
	id        ElementID
	stockpile Stockpile
}

// NewStorehouse creates a storehouse. A nil stockpile defaults to a FIFO
// PackageQueue.
func NewStorehouse(id ElementID, stockpile Stockpile) *Storehouse {
	if stockpile == nil {
		stockpile = NewPackageQueue(FIFO)
	}
	return &Storehouse{id: id, stockpile: stockpile}
}

// ID returns the storehouse id.
func (s *Storehouse) ID() ElementID {
	return s.id
}

// Ref returns the storehouse handle.
func (s *Storehouse) Ref() NodeRef {
	return StoreRef(s.id)
}

// Receive stores p.
func (s *Storehouse) Receive(p Package) {
	s.stockpile.Push(p)
}

// Stockpile returns a read-only view of the delivered packages.
func (s *Storehouse) Stockpile() PackageView {
	return s.stockpile
}

func (s *Storehouse) release() {
	if q, ok := s.stockpile.(*PackageQueue); ok {
		q.releaseAll()
	}
}
