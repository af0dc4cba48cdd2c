package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/netsim/sim"
	"github.com/inference-sim/netsim/sim/report"
	"github.com/inference-sim/netsim/sim/topology"
	"github.com/inference-sim/netsim/sim/trace"
)

var (
	// CLI flags
	configPath     string  // Run configuration file (YAML or TOML)
	topologyPath   string  // Topology file
	turns          int64   // Number of ticks to simulate
	seed           int64   // Seed for routing decisions
	logLevel       string  // Log verbosity level
	traceLevel     string  // Delivery trace level
	reportInterval int64   // Turn report every N ticks (0 = off)
	reportTurns    []int64 // Explicit ticks to report
	showStructure  bool    // Print the structure report before the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "netsim",
	Short: "Discrete-time simulator for ramp / worker / storehouse package networks",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)
	},
}

// runCmd executes the simulation using the run configuration and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the network simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := DefaultRunConfig()
		if configPath != "" {
			loaded, err := LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		}
		applyRunFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}
		setLogLevel(cfg.LogLevel)

		if err := runSimulation(cfg, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// validateCmd checks the consistency of a topology
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every ramp and worker can reach a storehouse",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := loadNetwork(topologyPath, seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := n.CheckConsistency(); err != nil {
			fmt.Fprintf(os.Stdout, "INCONSISTENT: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stdout, "OK")
	},
}

// structureCmd prints the structure report of a topology
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Print the structure report of a topology",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := loadNetwork(topologyPath, seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := report.WriteStructure(os.Stdout, n); err != nil {
			logrus.Fatalf("Writing structure report: %v", err)
		}
	},
}

// fmtCmd rewrites a topology in canonical form
var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Print a topology in canonical form",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := loadNetwork(topologyPath, seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := topology.Save(os.Stdout, n); err != nil {
			logrus.Fatalf("Writing topology: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// applyRunFlags copies explicitly set flags over cfg.
func applyRunFlags(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("topology") {
		cfg.Topology = topologyPath
	}
	if flags.Changed("turns") {
		cfg.Turns = turns
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("trace") {
		cfg.Trace = traceLevel
	}
	if flags.Changed("report-interval") {
		cfg.Report.Interval = reportInterval
	}
	if flags.Changed("report-turns") {
		cfg.Report.Turns = reportTurns
	}
	if flags.Changed("structure") {
		cfg.Report.Structure = showStructure
	}
}

// loadNetwork reads a topology file into a network seeded with seed.
func loadNetwork(path string, seed int64) (*sim.Network, error) {
	if path == "" {
		return nil, fmt.Errorf("topology file not provided")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening topology: %w", err)
	}
	defer f.Close()

	n := sim.NewNetwork(sim.NewSimulationKey(seed))
	if err := topology.Load(f, n); err != nil {
		return nil, fmt.Errorf("loading topology %s: %w", path, err)
	}
	return n, nil
}

// newNotifier builds the turn-report notifier selected by cfg, nil for none.
func newNotifier(cfg ReportConfig) report.Notifier {
	if len(cfg.Turns) > 0 {
		ticks := make([]sim.Time, len(cfg.Turns))
		for i, t := range cfg.Turns {
			ticks[i] = sim.Time(t)
		}
		return report.NewSpecificTurnsNotifier(ticks...)
	}
	if cfg.Interval > 0 {
		return report.NewIntervalNotifier(sim.TimeOffset(cfg.Interval))
	}
	return nil
}

// runSimulation loads the topology, runs it and writes reports to out.
func runSimulation(cfg RunConfig, out io.Writer) error {
	n, err := loadNetwork(cfg.Topology, cfg.Seed)
	if err != nil {
		return err
	}
	if cfg.Report.Structure {
		if err := report.WriteStructure(out, n); err != nil {
			return fmt.Errorf("writing structure report: %w", err)
		}
	}

	simulator := sim.NewSimulator(n)
	var st *trace.SimulationTrace
	if cfg.Trace != "" && cfg.Trace != string(trace.TraceLevelNone) {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.Trace)})
		simulator.SetTrace(st)
	}

	var observer sim.TurnObserver
	if notifier := newNotifier(cfg.Report); notifier != nil {
		observer = report.Observer(out, notifier)
	}
	logrus.Infof("Starting simulation of %s: turns=%d, seed=%d", cfg.Topology, cfg.Turns, cfg.Seed)
	if err := simulator.Run(sim.TimeOffset(cfg.Turns), observer); err != nil {
		return err
	}

	if st != nil {
		writeTraceSummary(out, trace.Summarize(st))
	}
	return nil
}

func writeTraceSummary(out io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintf(out, "=== Trace Summary ===\n")
	fmt.Fprintf(out, "Generated: %d\n", summary.TotalGenerated)
	fmt.Fprintf(out, "Deliveries: %d\n", summary.TotalDeliveries)
	receivers := make([]string, 0, len(summary.ReceiverDistribution))
	for r := range summary.ReceiverDistribution {
		receivers = append(receivers, r)
	}
	sort.Strings(receivers)
	for _, r := range receivers {
		fmt.Fprintf(out, "  %s: %d\n", r, summary.ReceiverDistribution[r])
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&topologyPath, "topology", "", "Topology file (LOADING_RAMP / WORKER / STOREHOUSE / LINK records)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed for routing decisions")

	runCmd.Flags().StringVar(&configPath, "config", "", "Run configuration file (.yaml or .toml)")
	runCmd.Flags().Int64Var(&turns, "turns", 10, "Number of ticks to simulate")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, deliveries)")
	runCmd.Flags().Int64Var(&reportInterval, "report-interval", 1, "Write a turn report every N ticks (0 disables)")
	runCmd.Flags().Int64SliceVar(&reportTurns, "report-turns", nil, "Comma-separated ticks to report (overrides --report-interval)")
	runCmd.Flags().BoolVar(&showStructure, "structure", false, "Print the structure report before running")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(fmtCmd)
}
