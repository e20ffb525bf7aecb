package core

import (
	"errors"
	"strings"
	"testing"
)

func noop() {}

func TestNewTableConfigErrors(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       TickConfig
		runnables []Runnable
		wantErr   error
		wantIndex int
	}{
		{
			name:      "zero period",
			cfg:       DefaultTickConfig(),
			runnables: []Runnable{{Name: "ok", PeriodMS: 5, Callback: noop}, {Name: "bad", PeriodMS: 0, Callback: noop}},
			wantErr:   ErrZeroPeriod,
			wantIndex: 1,
		},
		{
			name:      "nil callback",
			cfg:       DefaultTickConfig(),
			runnables: []Runnable{{Name: "bad", PeriodMS: 5}},
			wantErr:   ErrNilCallback,
			wantIndex: 0,
		},
		{
			name:      "unaligned delay",
			cfg:       TickConfig{ClockHz: DefaultClockHz, ResolutionUS: 2000},
			runnables: []Runnable{{Name: "bad", PeriodMS: 4, InitialDelayMS: 1, Callback: noop}},
			wantErr:   ErrUnalignedDuration,
			wantIndex: 0,
		},
	}

	for _, tc := range testCases {
		_, err := NewTable(tc.cfg, tc.runnables...)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			continue
		}

		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("%s: expected *ConfigError, got %T", tc.name, err)
			continue
		}
		if cerr.Index != tc.wantIndex {
			t.Errorf("%s: expected index %d, got %d", tc.name, tc.wantIndex, cerr.Index)
		}
		if !strings.Contains(err.Error(), "bad") {
			t.Errorf("%s: expected runnable name in error, got %q", tc.name, err.Error())
		}
	}
}

func TestNewTableSize(t *testing.T) {
	cfg := DefaultTickConfig()

	if _, err := NewTable(cfg); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("Expected ErrEmptyTable, got %v", err)
	}

	runnables := make([]Runnable, MaxRunnables+1)
	for i := range runnables {
		runnables[i] = Runnable{Name: "r", PeriodMS: 1, Callback: noop}
	}
	if _, err := NewTable(cfg, runnables...); !errors.Is(err, ErrTooManyRunnables) {
		t.Errorf("Expected ErrTooManyRunnables, got %v", err)
	}

	if _, err := NewTable(cfg, runnables[:MaxRunnables]...); err != nil {
		t.Errorf("Expected a full table to be accepted, got %v", err)
	}
}

func TestNewTableInvalidTickConfig(t *testing.T) {
	_, err := NewTable(TickConfig{}, Runnable{Name: "r", PeriodMS: 1, Callback: noop})
	if !errors.Is(err, ErrInvalidTickConfig) {
		t.Errorf("Expected ErrInvalidTickConfig, got %v", err)
	}
}

func TestMustNewTablePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected MustNewTable to panic on a nil callback")
		}
	}()
	MustNewTable(DefaultTickConfig(), Runnable{Name: "bad", PeriodMS: 5})
}

func TestTableInitialize(t *testing.T) {
	cfg := TickConfig{ClockHz: DefaultClockHz, ResolutionUS: 5000}
	table := MustNewTable(cfg,
		Runnable{Name: "control", PeriodMS: 50, InitialDelayMS: 100, Callback: noop},
		Runnable{Name: "debounce", PeriodMS: 5, InitialDelayMS: 50, Callback: noop},
	)

	table.Initialize(1000)

	if table.Len() != 2 {
		t.Fatalf("Expected 2 runnables, got %d", table.Len())
	}
	if table.PeriodTicks(0) != 10 || table.DelayTicks(0) != 20 {
		t.Errorf("Expected control period/delay 10/20 ticks, got %d/%d", table.PeriodTicks(0), table.DelayTicks(0))
	}
	if table.NextDue(0) != 1020 {
		t.Errorf("Expected control due at 1020, got %d", table.NextDue(0))
	}
	if table.NextDue(1) != 1010 {
		t.Errorf("Expected debounce due at 1010, got %d", table.NextDue(1))
	}
	if table.Name(1) != "debounce" {
		t.Errorf("Expected name 'debounce', got '%s'", table.Name(1))
	}
}
