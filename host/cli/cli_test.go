package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"runsched/host/tracedb"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSimulateDefaultTable(t *testing.T) {
	out, _, err := execute(t, "simulate", "--ticks", "200")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if !strings.Contains(out, "TICK") || !strings.Contains(out, "Switch Debouncing Runnable") {
		t.Errorf("Expected trace table in output, got:\n%s", out)
	}

	// Stats row for the control runnable: period 50, 3 runs, no overruns
	found := false
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 7 && fields[1] == "ControlSwitches_Runnable" {
			found = true
			if fields[2] != "50" || fields[3] != "3" || fields[4] != "0" {
				t.Errorf("Unexpected stats row: %q", line)
			}
		}
	}
	if !found {
		t.Errorf("No stats row for the control runnable in:\n%s", out)
	}
}

func TestSimulateOverrunStoresTrace(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "blocking.yaml")
	doc := `
overrun_policy: skip
runnables:
  - name: slow
    period_ms: 50
  - name: blocker
    period_ms: 1000
    initial_delay_ms: 60
    cost_ticks: 150
`
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(dir, "trace.db")

	out, logs, err := execute(t, "simulate", "-c", cfgPath, "-n", "300", "-q", "--db", dbPath, "--log-format", "json")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if strings.Contains(out, "TICK") {
		t.Errorf("--quiet should suppress the trace, got:\n%s", out)
	}
	if !strings.Contains(logs, "runnable overrun") {
		t.Errorf("Expected an overrun warning, got logs:\n%s", logs)
	}

	db, err := tracedb.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open trace db: %v", err)
	}
	defer db.Close()

	runs, err := db.Runs(context.Background())
	if err != nil || len(runs) != 1 {
		t.Fatalf("Expected one stored run, got %v (%v)", runs, err)
	}
	if runs[0].Label != cfgPath || runs[0].Policy != "skip" || runs[0].Ticks != 300 {
		t.Errorf("Unexpected run metadata: %+v", runs[0])
	}

	trace, err := db.Invocations(context.Background(), runs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	var slowTicks []uint32
	for _, inv := range trace {
		if inv.Name == "slow" {
			slowTicks = append(slowTicks, inv.Tick)
		}
	}
	want := []uint32{0, 50, 210, 250, 300}
	if len(slowTicks) != len(want) {
		t.Fatalf("Expected slow ticks %v, got %v", want, slowTicks)
	}
	for i := range want {
		if slowTicks[i] != want[i] {
			t.Errorf("Expected slow ticks %v, got %v", want, slowTicks)
			break
		}
	}
}

func TestSimulateWatchNeedsConfig(t *testing.T) {
	_, _, err := execute(t, "simulate", "--watch")
	if err == nil || !strings.Contains(err.Error(), "--config") {
		t.Errorf("Expected --watch without --config to fail, got %v", err)
	}
}

func TestSimulateBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte("runnables:\n  - name: zero\n    period_ms: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "simulate", "-c", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "period must be greater than 0") {
		t.Errorf("Expected zero period error, got %v", err)
	}
}

func TestRunWallClock(t *testing.T) {
	out, logs, err := execute(t, "run", "--duration", "120ms", "--debug")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(logs, "scheduler started") || !strings.Contains(logs, "scheduler stopped") {
		t.Errorf("Expected start/stop logs, got:\n%s", logs)
	}
	if !strings.Contains(logs, "Switch Debouncing Runnable") {
		t.Errorf("Expected debounce dispatches within 120ms, got:\n%s", logs)
	}
	if !strings.Contains(out, "RUNNABLE") {
		t.Errorf("Expected stats table, got:\n%s", out)
	}
}
