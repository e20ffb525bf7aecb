package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"runsched/core"
)

const demoYAML = `
tick:
  clock_hz: 16000000
  resolution_us: 1000
overrun_policy: catch-up
max_catch_up: 2
runnables:
  - name: ControlSwitches_Runnable
    period_ms: 50
    initial_delay_ms: 100
  - name: Switch Debouncing Runnable
    period_ms: 5
    initial_delay_ms: 50
    cost_ticks: 1
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(demoYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Policy() != core.PolicyCatchUp || cfg.MaxCatchUp != 2 {
		t.Errorf("Unexpected policy %v / max %d", cfg.Policy(), cfg.MaxCatchUp)
	}
	if len(cfg.Runnables) != 2 {
		t.Fatalf("Expected 2 runnables, got %d", len(cfg.Runnables))
	}
	r := cfg.Runnables[1]
	if r.Name != "Switch Debouncing Runnable" || r.PeriodMS != 5 || r.InitialDelayMS != 50 || r.CostTicks != 1 {
		t.Errorf("Unexpected runnable: %+v", r)
	}
	if got := cfg.TickConfig().ReloadValue(); got != 15999 {
		t.Errorf("Expected reload 15999, got %d", got)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("runnables:\n  - period_ms: 10\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Tick.ClockHz != core.DefaultClockHz || cfg.Tick.ResolutionUS != core.DefaultResolutionUS {
		t.Errorf("Tick defaults not applied: %+v", cfg.Tick)
	}
	if cfg.Policy() != core.PolicySkip || cfg.MaxCatchUp != core.DefaultMaxCatchUp {
		t.Errorf("Policy defaults not applied: %s / %d", cfg.OverrunPolicy, cfg.MaxCatchUp)
	}
	if cfg.Runnables[0].Name != "runnable0" {
		t.Errorf("Expected generated name, got %q", cfg.Runnables[0].Name)
	}
}

func TestParseErrors(t *testing.T) {
	testCases := map[string]string{
		"unknown key":    "runnables:\n  - period_ms: 10\n    priority: 3\n",
		"unknown policy": "overrun_policy: drop\nrunnables:\n  - period_ms: 10\n",
		"no runnables":   "overrun_policy: skip\n",
		"bad tick":       "tick:\n  clock_hz: 1000\n  resolution_us: 1\nrunnables:\n  - period_ms: 10\n",
	}
	for name, doc := range testCases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	if _, err := Parse([]byte("")); !errors.Is(err, core.ErrEmptyTable) {
		t.Errorf("Expected ErrEmptyTable for an empty document, got %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.Runnables[0].PeriodMS != 50 || cfg.Runnables[1].InitialDelayMS != 50 {
		t.Errorf("Unexpected default table: %+v", cfg.Runnables)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	if err := os.WriteFile(path, []byte(demoYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *File, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(f *File, err error) {
			if err == nil {
				reloaded <- f
			}
		})
	}()

	// Give the watcher time to register before changing the file
	time.Sleep(200 * time.Millisecond)
	updated := strings.Replace(demoYAML, "period_ms: 5\n", "period_ms: 10\n", 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case f := <-reloaded:
		if f.Runnables[1].PeriodMS != 10 {
			t.Errorf("Expected reloaded period 10, got %d", f.Runnables[1].PeriodMS)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("No reload after file change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
