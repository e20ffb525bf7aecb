// Package monitor parses the scheduler trace lines the firmware writes to
// its debug port.
package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

const tracePrefix = "[SCHED]"

// ErrNotTrace is returned by ParseLine for lines that are not scheduler trace
var ErrNotTrace = errors.New("not a scheduler trace line")

// Event kinds
const (
	KindInit     = "INIT"
	KindDispatch = "DISPATCH"
	KindOverrun  = "OVERRUN"
)

// Event is one parsed trace line
type Event struct {
	Kind      string
	Index     int
	Name      string
	Tick      uint32
	Late      uint32
	Runs      uint32
	Skipped   uint32
	Runnables int
}

// ParseLine parses a line such as
//
//	[SCHED] DISPATCH idx=1 name="Switch Debouncing Runnable" tick=55 late=0
//
// Runnable names are quoted, so the line is split with shell rules.
func ParseLine(line string) (Event, error) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, tracePrefix)
	if !ok {
		return Event{}, ErrNotTrace
	}

	fields, err := shlex.Split(rest)
	if err != nil {
		return Event{}, fmt.Errorf("split trace line: %w", err)
	}
	if len(fields) == 0 {
		return Event{}, fmt.Errorf("trace line has no event kind")
	}

	ev := Event{Kind: fields[0]}
	switch ev.Kind {
	case KindInit, KindDispatch, KindOverrun:
	default:
		return Event{}, fmt.Errorf("unknown trace event %q", ev.Kind)
	}

	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return Event{}, fmt.Errorf("malformed field %q", f)
		}
		if err := ev.set(key, value); err != nil {
			return Event{}, err
		}
	}
	return ev, nil
}

func (ev *Event) set(key, value string) error {
	var err error
	switch key {
	case "name":
		ev.Name = value
	case "idx":
		ev.Index, err = strconv.Atoi(value)
	case "runnables":
		ev.Runnables, err = strconv.Atoi(value)
	case "tick":
		ev.Tick, err = parseUint32(value)
	case "late":
		ev.Late, err = parseUint32(value)
	case "runs":
		ev.Runs, err = parseUint32(value)
	case "skipped":
		ev.Skipped, err = parseUint32(value)
	default:
		// Newer firmware may add fields
		return nil
	}
	if err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

// Scan reads lines from r and calls fn for every trace event until r is
// exhausted or ctx is done. Non-trace lines are skipped; malformed trace
// lines are passed to onError if it is not nil.
func Scan(ctx context.Context, r io.Reader, fn func(Event), onError func(line string, err error)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		ev, err := ParseLine(line)
		if errors.Is(err, ErrNotTrace) {
			continue
		}
		if err != nil {
			if onError != nil {
				onError(line, err)
			}
			continue
		}
		fn(ev)
	}
	return sc.Err()
}
