package report

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/netsim/sim"
)

// Notifier decides on which ticks a turn report is written.
type Notifier interface {
	ShouldGenerateReport(t sim.Time) bool
}

// SpecificTurnsNotifier reports on an explicit set of ticks.
type SpecificTurnsNotifier struct {
	turns map[sim.Time]bool
}

// NewSpecificTurnsNotifier creates a notifier for the given ticks.
func NewSpecificTurnsNotifier(turns ...sim.Time) *SpecificTurnsNotifier {
	n := &SpecificTurnsNotifier{turns: make(map[sim.Time]bool, len(turns))}
	for _, t := range turns {
		n.turns[t] = true
	}
	return n
}

// ShouldGenerateReport implements Notifier.
func (n *SpecificTurnsNotifier) ShouldGenerateReport(t sim.Time) bool {
	return n.turns[t]
}

// IntervalNotifier reports on ticks 1, 1+interval, 1+2*interval, ...
type IntervalNotifier struct {
	interval sim.TimeOffset
}

// NewIntervalNotifier creates a notifier firing every interval ticks.
// Panics if interval < 1.
func NewIntervalNotifier(interval sim.TimeOffset) *IntervalNotifier {
	if interval < 1 {
		panic("NewIntervalNotifier: interval must be >= 1")
	}
	return &IntervalNotifier{interval: interval}
}

// ShouldGenerateReport implements Notifier.
func (n *IntervalNotifier) ShouldGenerateReport(t sim.Time) bool {
	return (t-1)%sim.Time(n.interval) == 0
}

// Observer returns a sim.TurnObserver writing a turn report to w whenever
// notifier fires. Write errors are logged; they do not stop the simulation.
func Observer(w io.Writer, notifier Notifier) sim.TurnObserver {
	return func(n *sim.Network, t sim.Time) {
		if !notifier.ShouldGenerateReport(t) {
			return
		}
		if err := WriteTurn(w, n, t); err != nil {
			logrus.Errorf("writing report for turn %d: %v", t, err)
		}
	}
}
