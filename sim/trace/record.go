// Package trace provides delivery-trace recording for network simulations.
// This package has no dependencies on sim/ — it stores pure data types, with
// nodes named the way LINK records name them (e.g. "worker-2").
package trace

// GenerationRecord captures a package originated by a ramp.
type GenerationRecord struct {
	PackageID uint64
	Tick      int64
	Ramp      string
}

// DeliveryRecord captures a single flush: which package went where.
type DeliveryRecord struct {
	PackageID uint64
	Tick      int64
	Sender    string
	Receiver  string
}
