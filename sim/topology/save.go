package topology

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/inference-sim/netsim/sim"
)

// Save writes n in canonical form: section comments, nodes sorted by id, and
// the links of each sender (ramps, then workers, by id) with storehouse
// targets before worker targets, each sorted by id.
//
// Routing weights are not written; loading the output rebuilds them with the
// incremental rule.
func Save(w io.Writer, n *sim.Network) error {
	bw := bufio.NewWriter(w)

	ramps := n.Ramps()
	slices.SortFunc(ramps, func(a, b *sim.Ramp) int { return cmp.Compare(a.ID(), b.ID()) })
	workers := n.Workers()
	slices.SortFunc(workers, func(a, b *sim.Worker) int { return cmp.Compare(a.ID(), b.ID()) })
	stores := n.Storehouses()
	slices.SortFunc(stores, func(a, b *sim.Storehouse) int { return cmp.Compare(a.ID(), b.ID()) })

	fmt.Fprint(bw, "; == LOADING RAMPS ==\n\n")
	for _, r := range ramps {
		fmt.Fprintf(bw, "%s id=%d delivery-interval=%d\n", LoadingRamp, r.ID(), r.DeliveryInterval())
	}

	fmt.Fprint(bw, "\n; == WORKERS ==\n\n")
	for _, wk := range workers {
		fmt.Fprintf(bw, "%s id=%d processing-time=%d queue-type=%s\n", Worker, wk.ID(), wk.ProcessingDuration(), wk.QueueType())
	}

	fmt.Fprint(bw, "\n; == STOREHOUSES ==\n\n")
	for _, s := range stores {
		fmt.Fprintf(bw, "%s id=%d\n", Storehouse, s.ID())
	}

	fmt.Fprint(bw, "\n; == LINKS ==\n")
	senders := make([]sim.PackageSender, 0, len(ramps)+len(workers))
	for _, r := range ramps {
		senders = append(senders, r)
	}
	for _, wk := range workers {
		senders = append(senders, wk)
	}
	for _, s := range senders {
		prefs := s.Preferences()
		if len(prefs) == 0 {
			continue
		}
		fmt.Fprintln(bw)
		for _, dst := range linkTargets(prefs) {
			fmt.Fprintf(bw, "%s src=%s dest=%s\n", Link, s.Ref(), dst)
		}
	}

	return bw.Flush()
}

// linkTargets orders receivers storehouses first, then workers, each by id.
func linkTargets(prefs []sim.Preference) []sim.NodeRef {
	refs := make([]sim.NodeRef, 0, len(prefs))
	for _, p := range prefs {
		refs = append(refs, p.Receiver)
	}
	slices.SortFunc(refs, func(a, b sim.NodeRef) int {
		if a.Kind != b.Kind {
			if a.Kind == sim.KindStorehouse {
				return -1
			}
			if b.Kind == sim.KindStorehouse {
				return 1
			}
		}
		return a.Compare(b)
	})
	return refs
}
