package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/netsim/sim/internal/testutil"
)

func weights(rp *ReceiverPreferences) []float64 {
	prefs := rp.Preferences()
	out := make([]float64, len(prefs))
	for i, p := range prefs {
		out[i] = p.Weight
	}
	return out
}

func TestReceiverPreferences_Add_IncrementalWeights(t *testing.T) {
	rp := NewReceiverPreferences(testutil.Constant(0.5))

	rp.Add(WorkerRef(1))
	assert.InDelta(t, 1.0, rp.Weight(WorkerRef(1)), 1e-12)

	rp.Add(WorkerRef(2))
	assert.InDelta(t, 0.5, rp.Weight(WorkerRef(1)), 1e-12)
	assert.InDelta(t, 0.5, rp.Weight(WorkerRef(2)), 1e-12)

	rp.Add(StoreRef(1))
	for _, w := range weights(rp) {
		assert.InDelta(t, 1.0/3, w, 1e-12)
	}
}

func TestReceiverPreferences_Add_DuplicateIsNoOp(t *testing.T) {
	rp := NewReceiverPreferences(testutil.Constant(0.5))
	rp.Add(WorkerRef(1))
	rp.Add(WorkerRef(2))

	rp.Add(WorkerRef(1))

	assert.Equal(t, 2, rp.Len())
	assert.InDelta(t, 0.5, rp.Weight(WorkerRef(1)), 1e-12)
}

func TestReceiverPreferences_Remove_RescalesSurvivors(t *testing.T) {
	// GIVEN three receivers with weight 1/3 each
	rp := NewReceiverPreferences(testutil.Constant(0.5))
	rp.Add(WorkerRef(1))
	rp.Add(WorkerRef(2))
	rp.Add(WorkerRef(3))

	// WHEN one is removed
	removed := rp.Remove(WorkerRef(2))

	// THEN the other two share the probability mass
	assert.True(t, removed)
	assert.False(t, rp.Contains(WorkerRef(2)))
	assert.InDelta(t, 0.5, rp.Weight(WorkerRef(1)), 1e-12)
	assert.InDelta(t, 0.5, rp.Weight(WorkerRef(3)), 1e-12)
}

func TestReceiverPreferences_Remove_LastReceiverLeavesEmptyState(t *testing.T) {
	// GIVEN a single receiver
	rp := NewReceiverPreferences(testutil.Constant(0.5))
	rp.Add(StoreRef(1))

	// WHEN it is removed
	require.True(t, rp.Remove(StoreRef(1)))

	// THEN the table is empty, Choose reports it, and later adds start fresh
	assert.True(t, rp.IsEmpty())
	assert.Empty(t, rp.Preferences())
	_, err := rp.Choose()
	assert.ErrorIs(t, err, ErrEmptyRouterSelection)

	rp.Add(StoreRef(2))
	assert.InDelta(t, 1.0, rp.Weight(StoreRef(2)), 1e-12)
}

func TestReceiverPreferences_Remove_Absent(t *testing.T) {
	rp := NewReceiverPreferences(testutil.Constant(0.5))
	rp.Add(WorkerRef(1))

	assert.False(t, rp.Remove(WorkerRef(9)))
	assert.InDelta(t, 1.0, rp.Weight(WorkerRef(1)), 1e-12)
}

func TestReceiverPreferences_WeightsSumToOneUnderRandomEdits(t *testing.T) {
	// GIVEN a random sequence of adds and removes over a small receiver set
	rng := rand.New(rand.NewSource(42))
	rp := NewReceiverPreferences(testutil.Constant(0.5))
	candidates := []NodeRef{WorkerRef(1), WorkerRef(2), WorkerRef(3), StoreRef(1), StoreRef(2), StoreRef(7)}

	for step := 0; step < 2000; step++ {
		r := candidates[rng.Intn(len(candidates))]
		if rng.Intn(2) == 0 {
			rp.Add(r)
		} else {
			rp.Remove(r)
		}
		// THEN after every operation the weights sum to 1 (or the table is empty)
		testutil.AssertSumsToOne(t, weights(rp), 1e-9)
		if rp.IsEmpty() {
			assert.Equal(t, 0, rp.Len())
		}
	}
}

func TestReceiverPreferences_PreferencesSortedByKindThenID(t *testing.T) {
	rp := NewReceiverPreferences(testutil.Constant(0.5))
	rp.Add(StoreRef(2))
	rp.Add(WorkerRef(5))
	rp.Add(StoreRef(1))
	rp.Add(WorkerRef(3))

	assert.Equal(t, []NodeRef{WorkerRef(3), WorkerRef(5), StoreRef(1), StoreRef(2)}, rp.Receivers())
}

func TestReceiverPreferences_Choose_CumulativeWalk(t *testing.T) {
	// GIVEN four receivers with weight 0.25 each
	tests := []struct {
		name string
		u    float64
		want NodeRef
	}{
		{"zero picks first", 0.0, WorkerRef(1)},
		{"inside first bucket", 0.1, WorkerRef(1)},
		{"boundary is inclusive", 0.25, WorkerRef(1)},
		{"second bucket", 0.3, WorkerRef(2)},
		{"last bucket", 0.99, StoreRef(2)},
		{"above total falls back to last", 1.5, StoreRef(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := NewReceiverPreferences(testutil.Constant(tt.u))
			rp.Add(WorkerRef(1))
			rp.Add(WorkerRef(2))
			rp.Add(StoreRef(1))
			rp.Add(StoreRef(2))

			got, err := rp.Choose()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReceiverPreferences_Choose_DrawsOncePerCall(t *testing.T) {
	calls := 0
	rp := NewReceiverPreferences(testutil.Counting(testutil.Sequence(0.1, 0.9), &calls))
	rp.Add(WorkerRef(1))
	rp.Add(WorkerRef(2))

	first, err := rp.Choose()
	require.NoError(t, err)
	second, err := rp.Choose()
	require.NoError(t, err)

	assert.Equal(t, WorkerRef(1), first)
	assert.Equal(t, WorkerRef(2), second)
	assert.Equal(t, 2, calls)
}

func TestReceiverPreferences_Choose_EmptyDoesNotDraw(t *testing.T) {
	calls := 0
	rp := NewReceiverPreferences(testutil.Counting(testutil.Constant(0.5), &calls))

	_, err := rp.Choose()

	assert.ErrorIs(t, err, ErrEmptyRouterSelection)
	assert.Equal(t, 0, calls)
}

func TestReceiverPreferences_Preferences_ReturnsCopy(t *testing.T) {
	rp := NewReceiverPreferences(testutil.Constant(0.5))
	rp.Add(WorkerRef(1))

	prefs := rp.Preferences()
	prefs[0].Weight = 42

	assert.InDelta(t, 1.0, rp.Weight(WorkerRef(1)), 1e-12)
}

func TestNewReceiverPreferences_NilGeneratorPanics(t *testing.T) {
	assert.Panics(t, func() { NewReceiverPreferences(nil) })
}
