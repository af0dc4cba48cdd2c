package sim

import (
	"fmt"
	"slices"
)

// ProbabilityGenerator returns values uniformly distributed in [0, 1).
type ProbabilityGenerator func() float64

// Preference is one routing edge: a receiver and the probability of choosing it.
type Preference struct {
	Receiver NodeRef
	Weight   float64
}

// ReceiverPreferences is a sender's weighted distribution over its receivers.
//
// Weights are non-negative and sum to 1.0 (within floating tolerance) whenever
// the table is non-empty. Entries are kept sorted by receiver (kind, then id),
// which fixes the order Choose walks them in.
type ReceiverPreferences struct {
	prefs []Preference
	gen   ProbabilityGenerator
}

// NewReceiverPreferences creates an empty routing table drawing from gen.
func NewReceiverPreferences(gen ProbabilityGenerator) *ReceiverPreferences {
	if gen == nil {
		panic("NewReceiverPreferences: gen must not be nil")
	}
	return &ReceiverPreferences{gen: gen}
}

// Add inserts r with weight 1/(n+1) and scales the n existing weights by
// n/(n+1). Adding a receiver already present changes nothing.
func (rp *ReceiverPreferences) Add(r NodeRef) {
	i, found := rp.search(r)
	if found {
		return
	}
	n := float64(len(rp.prefs))
	weight := 1.0
	if n > 0 {
		scale := n / (n + 1)
		for j := range rp.prefs {
			rp.prefs[j].Weight *= scale
		}
		weight = 1 / (n + 1)
	}
	rp.prefs = slices.Insert(rp.prefs, i, Preference{Receiver: r, Weight: weight})
}

// Remove erases r and rescales the n remaining weights by (n+1)/n.
// Removing the last receiver leaves the table empty. Returns false if r was
// not present.
func (rp *ReceiverPreferences) Remove(r NodeRef) bool {
	i, found := rp.search(r)
	if !found {
		return false
	}
	rp.prefs = slices.Delete(rp.prefs, i, i+1)
	n := float64(len(rp.prefs))
	if n == 0 {
		rp.prefs = nil
		return true
	}
	scale := (n + 1) / n
	for j := range rp.prefs {
		rp.prefs[j].Weight *= scale
	}
	return true
}

// Choose draws u from the generator and returns the first receiver whose
// cumulative weight reaches u. When rounding leaves u above the final
// cumulative sum, the last receiver is returned.
func (rp *ReceiverPreferences) Choose() (NodeRef, error) {
	if len(rp.prefs) == 0 {
		return NodeRef{}, ErrEmptyRouterSelection
	}
	u := rp.gen()
	cumulative := 0.0
	for _, p := range rp.prefs {
		cumulative += p.Weight
		if cumulative >= u {
			return p.Receiver, nil
		}
	}
	return rp.prefs[len(rp.prefs)-1].Receiver, nil
}

// Len returns the number of receivers.
func (rp *ReceiverPreferences) Len() int {
	return len(rp.prefs)
}

// IsEmpty reports whether the table has no receivers.
func (rp *ReceiverPreferences) IsEmpty() bool {
	return len(rp.prefs) == 0
}

// Contains reports whether r is a receiver.
func (rp *ReceiverPreferences) Contains(r NodeRef) bool {
	_, found := rp.search(r)
	return found
}

// Weight returns the probability of choosing r, 0 if absent.
func (rp *ReceiverPreferences) Weight(r NodeRef) float64 {
	if i, found := rp.search(r); found {
		return rp.prefs[i].Weight
	}
	return 0
}

// Preferences returns a copy of the entries in choice order.
func (rp *ReceiverPreferences) Preferences() []Preference {
	return slices.Clone(rp.prefs)
}

// Receivers returns the receivers in choice order.
func (rp *ReceiverPreferences) Receivers() []NodeRef {
	refs := make([]NodeRef, len(rp.prefs))
	for i, p := range rp.prefs {
		refs[i] = p.Receiver
	}
	return refs
}

func (rp *ReceiverPreferences) String() string {
	return fmt.Sprint(rp.prefs)
}

func (rp *ReceiverPreferences) search(r NodeRef) (int, bool) {
	return slices.BinarySearchFunc(rp.prefs, r, func(p Preference, target NodeRef) int {
		return p.Receiver.Compare(target)
	})
}
