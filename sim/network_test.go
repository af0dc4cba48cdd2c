package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/netsim/sim/internal/testutil"
)

// newTestNetwork returns a network whose routing tables all draw from gen.
func newTestNetwork(gen func() float64) *Network {
	return NewNetworkWithGenerators(func(NodeRef) ProbabilityGenerator { return gen })
}

// linearNetwork builds ramp-1 -> worker-1 -> store-1.
func linearNetwork(t *testing.T, interval, duration TimeOffset, qt QueueType) *Network {
	t.Helper()
	n := newTestNetwork(testutil.Constant(0.5))
	_, err := n.AddRamp(1, interval)
	require.NoError(t, err)
	_, err = n.AddWorker(1, duration, qt)
	require.NoError(t, err)
	_, err = n.AddStorehouse(1)
	require.NoError(t, err)
	require.NoError(t, n.AddLink(RampRef(1), WorkerRef(1)))
	require.NoError(t, n.AddLink(WorkerRef(1), StoreRef(1)))
	return n
}

func TestNetwork_AddNodes_KeepCreationOrder(t *testing.T) {
	n := newTestNetwork(testutil.Constant(0.5))
	for _, id := range []ElementID{3, 1, 2} {
		_, err := n.AddWorker(id, 1, FIFO)
		require.NoError(t, err)
	}

	var ids []ElementID
	for _, w := range n.Workers() {
		ids = append(ids, w.ID())
	}
	assert.Equal(t, []ElementID{3, 1, 2}, ids)
}

func TestNetwork_AddNodes_Errors(t *testing.T) {
	n := newTestNetwork(testutil.Constant(0.5))
	_, err := n.AddRamp(1, 1)
	require.NoError(t, err)
	_, err = n.AddWorker(1, 1, FIFO)
	require.NoError(t, err)
	_, err = n.AddStorehouse(1)
	require.NoError(t, err)

	tests := []struct {
		name    string
		add     func() error
		wantErr error
	}{
		{"duplicate ramp", func() error { _, err := n.AddRamp(1, 2); return err }, ErrDuplicateNode},
		{"duplicate worker", func() error { _, err := n.AddWorker(1, 2, LIFO); return err }, ErrDuplicateNode},
		{"duplicate storehouse", func() error { _, err := n.AddStorehouse(1); return err }, ErrDuplicateNode},
		{"zero interval", func() error { _, err := n.AddRamp(2, 0); return err }, ErrInvalidParameter},
		{"zero processing time", func() error { _, err := n.AddWorker(2, 0, FIFO); return err }, ErrInvalidParameter},
		{"unknown queue type", func() error { _, err := n.AddWorker(2, 1, QueueType(9)); return err }, ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.add(), tt.wantErr)
		})
	}
	assert.Len(t, n.Ramps(), 1)
	assert.Len(t, n.Workers(), 1)
	assert.Len(t, n.Storehouses(), 1)
}

func TestNetwork_SameIDAcrossKindsIsAllowed(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)

	r, ok := n.Ramp(1)
	require.True(t, ok)
	w, ok := n.Worker(1)
	require.True(t, ok)
	s, ok := n.Storehouse(1)
	require.True(t, ok)
	assert.Equal(t, RampRef(1), r.Ref())
	assert.Equal(t, WorkerRef(1), w.Ref())
	assert.Equal(t, StoreRef(1), s.Ref())
}

func TestNetwork_AddLink_Validation(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)

	tests := []struct {
		name     string
		src, dst NodeRef
		wantErr  error
	}{
		{"storehouse cannot send", StoreRef(1), WorkerRef(1), ErrInvalidLink},
		{"ramp cannot receive", WorkerRef(1), RampRef(1), ErrInvalidLink},
		{"unknown sender", RampRef(9), WorkerRef(1), ErrUnknownNode},
		{"unknown receiver", RampRef(1), StoreRef(9), ErrUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, n.AddLink(tt.src, tt.dst), tt.wantErr)
		})
	}
}

func TestNetwork_AddLink_UpdatesRoutingTable(t *testing.T) {
	// GIVEN a ramp linked to a worker
	n := linearNetwork(t, 1, 1, FIFO)
	_, err := n.AddStorehouse(2)
	require.NoError(t, err)

	// WHEN the ramp is also linked to a storehouse
	require.NoError(t, n.AddLink(RampRef(1), StoreRef(2)))

	// THEN both receivers share the ramp's routing mass
	s, ok := n.Sender(RampRef(1))
	require.True(t, ok)
	prefs := s.Preferences()
	require.Len(t, prefs, 2)
	assert.Equal(t, WorkerRef(1), prefs[0].Receiver)
	assert.Equal(t, StoreRef(2), prefs[1].Receiver)
	assert.InDelta(t, 0.5, prefs[0].Weight, 1e-12)
	assert.InDelta(t, 0.5, prefs[1].Weight, 1e-12)
}

func TestNetwork_WorkerSelfLinkIsAccepted(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)
	require.NoError(t, n.AddLink(WorkerRef(1), WorkerRef(1)))

	w, _ := n.Worker(1)
	assert.Len(t, w.Preferences(), 2)
}

func TestNetwork_RemoveLink(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)

	require.NoError(t, n.RemoveLink(RampRef(1), WorkerRef(1)))
	assert.ErrorIs(t, n.RemoveLink(RampRef(1), WorkerRef(1)), ErrInvalidLink)
	assert.ErrorIs(t, n.RemoveLink(RampRef(5), WorkerRef(1)), ErrUnknownNode)

	r, _ := n.Ramp(1)
	assert.Empty(t, r.Preferences())
}

func TestNetwork_RemoveWorker_PurgesIncomingLinks(t *testing.T) {
	// GIVEN a ramp feeding two workers, one of which also feeds the other
	n := newTestNetwork(testutil.Constant(0.5))
	_, _ = n.AddRamp(1, 1)
	_, _ = n.AddWorker(1, 1, FIFO)
	_, _ = n.AddWorker(2, 1, FIFO)
	_, _ = n.AddStorehouse(1)
	require.NoError(t, n.AddLink(RampRef(1), WorkerRef(1)))
	require.NoError(t, n.AddLink(RampRef(1), WorkerRef(2)))
	require.NoError(t, n.AddLink(WorkerRef(1), WorkerRef(2)))
	require.NoError(t, n.AddLink(WorkerRef(1), StoreRef(1)))
	require.NoError(t, n.AddLink(WorkerRef(2), StoreRef(1)))

	// WHEN worker 2 is removed
	require.True(t, n.RemoveWorker(2))

	// THEN no routing table still names it and the survivors are rescaled
	for _, l := range n.Links() {
		assert.NotEqual(t, WorkerRef(2), l.Dst, "dangling link %s", l)
	}
	r, _ := n.Ramp(1)
	require.Len(t, r.Preferences(), 1)
	assert.InDelta(t, 1.0, r.Preferences()[0].Weight, 1e-12)
	_, ok := n.Worker(2)
	assert.False(t, ok)
	assert.False(t, n.RemoveWorker(2))
}

func TestNetwork_RemoveStorehouse_LastReceiverLeavesEmptyTable(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)

	require.True(t, n.RemoveStorehouse(1))

	w, _ := n.Worker(1)
	assert.Empty(t, w.Preferences())
	assert.ErrorIs(t, n.CheckConsistency(), ErrInconsistentNetwork)
}

func TestNetwork_RemoveNodes_ReleaseHeldPackages(t *testing.T) {
	// GIVEN a network that has run long enough for every buffer to hold a package
	n := linearNetwork(t, 1, 2, FIFO)
	require.NoError(t, Simulate(n, 4, nil))
	require.Positive(t, n.Pool().Len())

	// WHEN every node is removed
	require.True(t, n.RemoveRamp(1))
	require.True(t, n.RemoveWorker(1))
	require.True(t, n.RemoveStorehouse(1))

	// THEN every package id has been returned to the pool
	assert.Equal(t, 0, n.Pool().Len())
	assert.False(t, n.RemoveRamp(1))
	assert.False(t, n.RemoveStorehouse(1))
}

func TestNetwork_Receiver_ResolvesOnlyReceivers(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)

	r, ok := n.Receiver(WorkerRef(1))
	require.True(t, ok)
	assert.Equal(t, WorkerRef(1), r.Ref())
	_, ok = n.Receiver(StoreRef(1))
	assert.True(t, ok)
	_, ok = n.Receiver(RampRef(1))
	assert.False(t, ok)
	_, ok = n.Receiver(StoreRef(2))
	assert.False(t, ok)

	_, ok = n.Sender(StoreRef(1))
	assert.False(t, ok)
}

func TestNetwork_Links_OrderedBySenderThenRoutingTable(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)
	_, _ = n.AddStorehouse(2)
	require.NoError(t, n.AddLink(RampRef(1), StoreRef(2)))

	assert.Equal(t, []Link{
		{Src: RampRef(1), Dst: WorkerRef(1)},
		{Src: RampRef(1), Dst: StoreRef(2)},
		{Src: WorkerRef(1), Dst: StoreRef(1)},
	}, n.Links())
}

func TestNetwork_Iteration_ReturnsCopies(t *testing.T) {
	n := linearNetwork(t, 1, 1, FIFO)

	ramps := n.Ramps()
	ramps[0] = nil

	r, ok := n.Ramp(1)
	assert.True(t, ok)
	assert.NotNil(t, r)
	assert.NotNil(t, n.Ramps()[0])
}

func TestNewNetwork_SeededRoutingIsReproducible(t *testing.T) {
	// GIVEN two networks with the same key and a ramp splitting between two storehouses
	build := func() *Network {
		n := NewNetwork(NewSimulationKey(7))
		_, _ = n.AddRamp(1, 1)
		_, _ = n.AddStorehouse(1)
		_, _ = n.AddStorehouse(2)
		require.NoError(t, n.AddLink(RampRef(1), StoreRef(1)))
		require.NoError(t, n.AddLink(RampRef(1), StoreRef(2)))
		return n
	}
	a, b := build(), build()

	// WHEN both run for 50 ticks
	require.NoError(t, Simulate(a, 50, nil))
	require.NoError(t, Simulate(b, 50, nil))

	// THEN every package lands in the same storehouse
	for _, id := range []ElementID{1, 2} {
		sa, _ := a.Storehouse(id)
		sb, _ := b.Storehouse(id)
		assert.Equal(t, sa.Stockpile().IDs(), sb.Stockpile().IDs())
	}
	s1, _ := a.Storehouse(1)
	s2, _ := a.Storehouse(2)
	assert.Equal(t, 50, s1.Stockpile().Len()+s2.Stockpile().Len())
}
