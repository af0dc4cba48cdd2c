// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/netsim/sim/trace"
)

// TurnObserver is invoked after every completed tick with the network and the
// tick number. Observers must treat the network as read-only.
type TurnObserver func(n *Network, t Time)

// Simulator is the clock that advances a Network tick by tick.
//
// Each tick runs, in order:
//  1. every ramp (creation order) generates per its interval, then flushes;
//  2. every worker (creation order) flushes the package finished in an
//     earlier tick, then does its work step;
//  3. the TurnObserver.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Simulator struct {
	network *Network
	trace   *trace.SimulationTrace
	runID   string
	clock   Time
}

// NewSimulator creates a Simulator driving network.
func NewSimulator(network *Network) *Simulator {
	if network == nil {
		panic("NewSimulator: network must not be nil")
	}
	return &Simulator{network: network}
}

// SetTrace attaches a trace that records generations and deliveries of later
// runs. A nil trace, or one configured with TraceLevelNone, records nothing.
func (s *Simulator) SetTrace(st *trace.SimulationTrace) {
	s.trace = st
}

// Network returns the simulated network.
func (s *Simulator) Network() *Network {
	return s.network
}

// RunID returns the id of the latest run, empty before the first run.
func (s *Simulator) RunID() string {
	return s.runID
}

// Clock returns the last completed tick of the latest run.
func (s *Simulator) Clock() Time {
	return s.clock
}

// Run executes ticks 1..turns. The network must pass CheckConsistency first;
// otherwise Run returns the consistency error without executing any tick.
// A flush failure aborts the run at the failing tick; the observer is not
// invoked for that tick.
func (s *Simulator) Run(turns TimeOffset, observer TurnObserver) error {
	if turns < 0 {
		return fmt.Errorf("running %d turns: %w", turns, ErrInvalidParameter)
	}
	if err := s.network.CheckConsistency(); err != nil {
		logrus.Warnf("Simulation refused: %v", err)
		return fmt.Errorf("simulation not started: %w", err)
	}

	s.runID = xid.New().String()
	s.clock = 0
	if s.tracing() {
		s.trace.RunID = s.runID
	}
	log := logrus.WithField("run", s.runID)
	log.Infof("Starting simulation: %d turns, %d ramps, %d workers, %d storehouses",
		turns, len(s.network.ramps), len(s.network.workers), len(s.network.storehouses))

	for t := Time(1); t <= Time(turns); t++ {
		if err := s.tick(t, log); err != nil {
			log.Errorf("[tick %07d] Simulation aborted: %v", t, err)
			return fmt.Errorf("tick %d: %w", t, err)
		}
		s.clock = t
		if observer != nil {
			observer(s.network, t)
		}
	}

	log.Infof("[tick %07d] Simulation ended", s.clock)
	return nil
}

func (s *Simulator) tick(t Time, log *logrus.Entry) error {
	for _, r := range s.network.ramps {
		if r.DeliverGoods(t) {
			id, _ := r.SendingBuffer()
			log.Debugf("[tick %07d] %s generated package %d", t, r.Ref(), id)
			if s.tracing() {
				s.trace.RecordGeneration(trace.GenerationRecord{PackageID: uint64(id), Tick: int64(t), Ramp: r.Ref().String()})
			}
		}
		if err := s.flush(&r.Sender, t, log); err != nil {
			return err
		}
	}
	for _, w := range s.network.workers {
		if err := s.flush(&w.Sender, t, log); err != nil {
			return err
		}
		w.DoWork(t)
	}
	return nil
}

func (s *Simulator) flush(sender *Sender, t Time, log *logrus.Entry) error {
	d, sent, err := sender.flush(s.network)
	if err != nil || !sent {
		return err
	}
	log.Debugf("[tick %07d] %s -> %s: package %d", t, d.Sender, d.Receiver, d.Package)
	if s.tracing() {
		s.trace.RecordDelivery(trace.DeliveryRecord{
			PackageID: uint64(d.Package),
			Tick:      int64(t),
			Sender:    d.Sender.String(),
			Receiver:  d.Receiver.String(),
		})
	}
	return nil
}

func (s *Simulator) tracing() bool {
	return s.trace != nil && s.trace.Config.Enabled()
}

// Simulate runs network for turns ticks with a fresh Simulator.
func Simulate(network *Network, turns TimeOffset, observer TurnObserver) error {
	return NewSimulator(network).Run(turns, observer)
}
