package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalGenerated       int
	TotalDeliveries      int
	UniqueReceivers      int
	ReceiverDistribution map[string]int // receiver → packages delivered to it
	SenderDistribution   map[string]int // sender → packages it flushed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ReceiverDistribution: make(map[string]int),
		SenderDistribution:   make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalGenerated = len(st.Generations)
	summary.TotalDeliveries = len(st.Deliveries)
	for _, d := range st.Deliveries {
		summary.ReceiverDistribution[d.Receiver]++
		summary.SenderDistribution[d.Sender]++
	}
	summary.UniqueReceivers = len(summary.ReceiverDistribution)

	return summary
}
