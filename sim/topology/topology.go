// Package topology reads and writes the line-oriented network description:
//
//	; comment
//	LOADING_RAMP id=1 delivery-interval=3
//	WORKER id=1 processing-time=2 queue-type=FIFO
//	STOREHOUSE id=1
//	LINK src=ramp-1 dest=worker-1
//	LINK src=worker-1 dest=store-1
//
// Blank lines and lines starting with ';' are ignored. Links are applied in
// file order, which fixes the initial routing weights.
package topology

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/netsim/sim"
)

// ElementType is the record keyword of a topology line.
type ElementType string

const (
	LoadingRamp ElementType = "LOADING_RAMP"
	Worker      ElementType = "WORKER"
	Storehouse  ElementType = "STOREHOUSE"
	Link        ElementType = "LINK"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("topology syntax error")

// requiredParams lists the parameters each record must carry.
var requiredParams = map[ElementType][]string{
	LoadingRamp: {"id", "delivery-interval"},
	Worker:      {"id", "processing-time", "queue-type"},
	Storehouse:  {"id"},
	Link:        {"src", "dest"},
}

// Record is one parsed topology line.
type Record struct {
	Type   ElementType
	Params map[string]string
}

// ParseLine parses a single non-comment line into a Record.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Record{}, fmt.Errorf("empty record: %w", ErrSyntax)
	}
	rec := Record{Type: ElementType(fields[0]), Params: make(map[string]string, len(fields)-1)}
	required, ok := requiredParams[rec.Type]
	if !ok {
		return Record{}, fmt.Errorf("unknown element type %q: %w", fields[0], ErrSyntax)
	}
	for _, f := range fields[1:] {
		key, value, found := strings.Cut(f, "=")
		if !found || key == "" || value == "" {
			return Record{}, fmt.Errorf("malformed parameter %q: %w", f, ErrSyntax)
		}
		if _, dup := rec.Params[key]; dup {
			return Record{}, fmt.Errorf("duplicate parameter %q: %w", key, ErrSyntax)
		}
		rec.Params[key] = value
	}
	for _, key := range required {
		if _, ok := rec.Params[key]; !ok {
			return Record{}, fmt.Errorf("%s: missing parameter %q: %w", rec.Type, key, ErrSyntax)
		}
	}
	return rec, nil
}

// ParseNodeRef parses the LINK endpoint syntax: ramp-N, worker-N or store-N.
func ParseNodeRef(s string) (sim.NodeRef, error) {
	kind, id, found := strings.Cut(s, "-")
	if !found {
		return sim.NodeRef{}, fmt.Errorf("malformed node reference %q: %w", s, ErrSyntax)
	}
	n, err := parseID(id)
	if err != nil {
		return sim.NodeRef{}, err
	}
	switch kind {
	case "ramp":
		return sim.RampRef(n), nil
	case "worker":
		return sim.WorkerRef(n), nil
	case "store":
		return sim.StoreRef(n), nil
	default:
		return sim.NodeRef{}, fmt.Errorf("unknown node kind %q in %q: %w", kind, s, ErrSyntax)
	}
}

// Load reads a topology from r and adds its nodes and links to n.
// Errors name the offending 1-based line.
func Load(r io.Reader, n *sim.Network) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := apply(rec, n); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading topology: %w", err)
	}
	logrus.Debugf("topology: loaded %d lines (%d ramps, %d workers, %d storehouses)",
		lineNo, len(n.Ramps()), len(n.Workers()), len(n.Storehouses()))
	return nil
}

func apply(rec Record, n *sim.Network) error {
	switch rec.Type {
	case LoadingRamp:
		id, err := parseID(rec.Params["id"])
		if err != nil {
			return err
		}
		interval, err := parseOffset(rec.Params["delivery-interval"])
		if err != nil {
			return err
		}
		_, err = n.AddRamp(id, interval)
		return err
	case Worker:
		id, err := parseID(rec.Params["id"])
		if err != nil {
			return err
		}
		duration, err := parseOffset(rec.Params["processing-time"])
		if err != nil {
			return err
		}
		queueType, err := sim.ParseQueueType(rec.Params["queue-type"])
		if err != nil {
			return err
		}
		_, err = n.AddWorker(id, duration, queueType)
		return err
	case Storehouse:
		id, err := parseID(rec.Params["id"])
		if err != nil {
			return err
		}
		_, err = n.AddStorehouse(id)
		return err
	case Link:
		src, err := ParseNodeRef(rec.Params["src"])
		if err != nil {
			return err
		}
		dst, err := ParseNodeRef(rec.Params["dest"])
		if err != nil {
			return err
		}
		return n.AddLink(src, dst)
	default:
		return fmt.Errorf("unknown element type %q: %w", rec.Type, ErrSyntax)
	}
}

func parseID(s string) (sim.ElementID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, ErrSyntax)
	}
	return sim.ElementID(v), nil
}

func parseOffset(s string) (sim.TimeOffset, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tick count %q: %w", s, ErrSyntax)
	}
	return sim.TimeOffset(v), nil
}
