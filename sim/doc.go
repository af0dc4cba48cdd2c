// Package sim provides the core discrete-time simulation engine for NetSim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - package.go: Package tokens and the IDPool they draw identifiers from
//   - node.go: Ramps (sources), Workers (processors) and Storehouses (sinks)
//   - router.go: ReceiverPreferences, the weighted per-sender routing table
//   - simulator.go: The tick loop and its fixed phase order
//
// # Architecture
//
// The sim package holds the data model and the engine; collaborators live in
// sub-packages:
//   - sim/topology/: textual topology loading and saving
//   - sim/report/: structure and per-turn reports, report notifiers
//   - sim/trace/: delivery trace recording
//
// Nodes never reference each other directly. Routing edges name receivers by
// NodeRef and are resolved through the owning Network at flush time, so removing
// a node only requires purging the matching edges.
//
// # Key Interfaces
//
//   - Receiver: accepts packages (Worker, Storehouse)
//   - PackageSender: owns an output buffer and a routing table (Ramp, Worker)
//   - Stockpile / Queue: package containers with FIFO or LIFO pop discipline
//   - ReceiverLookup: resolves a NodeRef to its Receiver (implemented by Network)
package sim
