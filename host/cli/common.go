package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"runsched/core"
	"runsched/host/config"
	"runsched/host/sim"
)

// loadConfig returns the file at path, or the built-in switch demo table
func loadConfig(path string) (*config.File, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func printTrace(w io.Writer, trace []sim.Invocation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICK\tIDX\tRUNNABLE\tDUE\tLATE")
	for _, inv := range trace {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\n", inv.Tick, inv.Index, inv.Name, inv.Due, inv.Lateness)
	}
	return tw.Flush()
}

func printStats(w io.Writer, table *core.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IDX\tRUNNABLE\tPERIOD\tRUNS\tOVERRUNS\tSKIPPED\tMAX LATE")
	for i := 0; i < table.Len(); i++ {
		s := table.Stats(i)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			i, table.Name(i), table.PeriodTicks(i), s.Runs, s.Overruns, s.Skipped, s.MaxLateness)
	}
	return tw.Flush()
}
