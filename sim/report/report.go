// Package report renders human-readable views of a network: its structure and
// its state after a simulation turn.
package report

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/inference-sim/netsim/sim"
)

// WriteStructure writes the ramps, workers and storehouses of n with their
// parameters and receivers. Nodes and receivers are sorted by id; receivers
// list storehouses before workers.
func WriteStructure(w io.Writer, n *sim.Network) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "\n== LOADING RAMPS ==\n\n")
	for _, r := range sortedRamps(n) {
		fmt.Fprintf(bw, "LOADING RAMP #%d\n", r.ID())
		fmt.Fprintf(bw, "  Delivery interval: %d\n", r.DeliveryInterval())
		writeReceivers(bw, r.Preferences())
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\n== WORKERS ==\n\n")
	for _, wk := range sortedWorkers(n) {
		fmt.Fprintf(bw, "WORKER #%d\n", wk.ID())
		fmt.Fprintf(bw, "  Processing time: %d\n", wk.ProcessingDuration())
		fmt.Fprintf(bw, "  Queue type: %s\n", wk.QueueType())
		writeReceivers(bw, wk.Preferences())
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\n== STOREHOUSES ==\n\n")
	for _, s := range sortedStorehouses(n) {
		fmt.Fprintf(bw, "STOREHOUSE #%d\n\n", s.ID())
	}

	return bw.Flush()
}

// WriteTurn writes the buffers and queues of every worker and the stock of
// every storehouse as they stand after tick t.
func WriteTurn(w io.Writer, n *sim.Network, t sim.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "=== [ Turn: %d ] ===\n", t)

	fmt.Fprint(bw, "\n== WORKERS ==\n\n")
	for _, wk := range sortedWorkers(n) {
		fmt.Fprintf(bw, "WORKER #%d\n", wk.ID())
		if id, ok := wk.ProcessingBuffer(); ok {
			fmt.Fprintf(bw, "  PBuffer: #%d (pt = %d)\n", id, wk.StartTime())
		} else {
			fmt.Fprint(bw, "  PBuffer: (empty)\n")
		}
		fmt.Fprintf(bw, "  Queue: %s\n", formatIDs(wk.Queue().IDs()))
		if id, ok := wk.SendingBuffer(); ok {
			fmt.Fprintf(bw, "  SBuffer: #%d\n", id)
		} else {
			fmt.Fprint(bw, "  SBuffer: (empty)\n")
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\n== STOREHOUSES ==\n\n")
	for _, s := range sortedStorehouses(n) {
		fmt.Fprintf(bw, "STOREHOUSE #%d\n", s.ID())
		fmt.Fprintf(bw, "  Stock: %s\n\n", formatIDs(s.Stockpile().IDs()))
	}

	return bw.Flush()
}

func writeReceivers(w io.Writer, prefs []sim.Preference) {
	refs := make([]sim.NodeRef, 0, len(prefs))
	for _, p := range prefs {
		refs = append(refs, p.Receiver)
	}
	slices.SortFunc(refs, func(a, b sim.NodeRef) int {
		// storehouses list first, then workers
		if a.Kind != b.Kind {
			return -cmp.Compare(a.Kind, b.Kind)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	fmt.Fprint(w, "  Receivers:\n")
	for _, ref := range refs {
		fmt.Fprintf(w, "    %s #%d\n", receiverLabel(ref.Kind), ref.ID)
	}
}

func receiverLabel(k sim.NodeKind) string {
	if k == sim.KindStorehouse {
		return "storehouse"
	}
	return "worker"
}

func formatIDs(ids []sim.ElementID) string {
	if len(ids) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, ", ")
}

func sortedRamps(n *sim.Network) []*sim.Ramp {
	ramps := n.Ramps()
	slices.SortFunc(ramps, func(a, b *sim.Ramp) int { return cmp.Compare(a.ID(), b.ID()) })
	return ramps
}

func sortedWorkers(n *sim.Network) []*sim.Worker {
	workers := n.Workers()
	slices.SortFunc(workers, func(a, b *sim.Worker) int { return cmp.Compare(a.ID(), b.ID()) })
	return workers
}

func sortedStorehouses(n *sim.Network) []*sim.Storehouse {
	stores := n.Storehouses()
	slices.SortFunc(stores, func(a, b *sim.Storehouse) int { return cmp.Compare(a.ID(), b.ID()) })
	return stores
}
