package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// nodeColor tracks a sender's state during the consistency walk.
type nodeColor int

const (
	colorUnvisited nodeColor = iota
	colorInProgress
	colorVerified
)

// dfsFrame is one sender on the explicit traversal stack.
type dfsFrame struct {
	ref       NodeRef
	receivers []NodeRef
	next      int
	satisfied bool
}

// IsConsistent reports whether CheckConsistency passes.
func (n *Network) IsConsistent() bool {
	return n.CheckConsistency() == nil
}

// CheckConsistency verifies that every sender has at least one link and can
// reach a storehouse along its links. The first violation aborts the check
// with an error wrapping ErrInconsistentNetwork.
//
// The walk is a depth-first three-colour traversal of the sender subgraph,
// rooted at every ramp in creation order and then at every worker not yet
// visited. For each link of a sender:
//   - a storehouse satisfies the sender;
//   - a self-loop is skipped;
//   - an unvisited sender is explored first and satisfies the sender once verified;
//   - a verified sender satisfies the sender;
//   - a sender still in progress contributes nothing, so a cycle that never
//     reaches a storehouse on its own is rejected.
//
// The check is not re-run automatically; callers re-invoke it after editing
// the network.
func (n *Network) CheckConsistency() error {
	colors := make(map[NodeRef]nodeColor, len(n.ramps)+len(n.workers))

	roots := make([]NodeRef, 0, len(n.ramps)+len(n.workers))
	for _, r := range n.ramps {
		roots = append(roots, r.Ref())
	}
	for _, w := range n.workers {
		roots = append(roots, w.Ref())
	}

	for _, root := range roots {
		if colors[root] != colorUnvisited {
			continue
		}
		if err := n.verifySender(root, colors); err != nil {
			logrus.Debugf("consistency: %v", err)
			return err
		}
	}
	return nil
}

func (n *Network) verifySender(root NodeRef, colors map[NodeRef]nodeColor) error {
	var stack []*dfsFrame

	enter := func(ref NodeRef) error {
		s, ok := n.sender(ref)
		if !ok {
			return fmt.Errorf("%s: %w: %w", ref, ErrUnknownNode, ErrInconsistentNetwork)
		}
		if s.prefs.IsEmpty() {
			return fmt.Errorf("%s has no outgoing links: %w", ref, ErrInconsistentNetwork)
		}
		colors[ref] = colorInProgress
		stack = append(stack, &dfsFrame{ref: ref, receivers: s.prefs.Receivers()})
		return nil
	}

	if err := enter(root); err != nil {
		return err
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.receivers) {
			if !top.satisfied {
				return fmt.Errorf("%s cannot reach a storehouse: %w", top.ref, ErrInconsistentNetwork)
			}
			colors[top.ref] = colorVerified
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				stack[len(stack)-1].satisfied = true
			}
			continue
		}

		dst := top.receivers[top.next]
		top.next++
		switch {
		case dst.Kind == KindStorehouse:
			top.satisfied = true
		case dst == top.ref:
			// self-loop
		case colors[dst] == colorVerified:
			top.satisfied = true
		case colors[dst] == colorUnvisited:
			if err := enter(dst); err != nil {
				return err
			}
		}
	}
	return nil
}
