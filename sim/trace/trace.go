package trace

// TraceLevel controls the verbosity of delivery tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDeliveries captures every generated package and every flush.
	TraceLevelDeliveries TraceLevel = "deliveries"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:       true,
	TraceLevelDeliveries: true,
	"":                   true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether the configuration records anything.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDeliveries
}

// SimulationTrace collects records during one simulation run.
type SimulationTrace struct {
	Config      TraceConfig
	RunID       string
	Generations []GenerationRecord
	Deliveries  []DeliveryRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Generations: make([]GenerationRecord, 0),
		Deliveries:  make([]DeliveryRecord, 0),
	}
}

// RecordGeneration appends a generation record.
func (st *SimulationTrace) RecordGeneration(record GenerationRecord) {
	st.Generations = append(st.Generations, record)
}

// RecordDelivery appends a delivery record.
func (st *SimulationTrace) RecordDelivery(record DeliveryRecord) {
	st.Deliveries = append(st.Deliveries, record)
}

// DeliveriesTo returns the deliveries received by the named node, in tick order.
func (st *SimulationTrace) DeliveriesTo(receiver string) []DeliveryRecord {
	var out []DeliveryRecord
	for _, d := range st.Deliveries {
		if d.Receiver == receiver {
			out = append(out, d)
		}
	}
	return out
}
