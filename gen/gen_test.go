package gen

import (
	"strings"
	"testing"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindTypes, "engine.types.ts"},
		{KindWorker, "engine.worker.ts"},
		{KindHooks, "engine.hooks.ts"},
	}

	for _, tt := range tests {
		if got := FileName("engine", tt.kind); got != tt.want {
			t.Errorf("FileName(engine, %s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"embed", "vite", "webpack"} {
		if _, err := ParseStrategy(valid); err != nil {
			t.Errorf("ParseStrategy(%q) unexpected error: %v", valid, err)
		}
	}

	if _, err := ParseStrategy("rollup"); err == nil {
		t.Error("ParseStrategy(rollup) expected error, got nil")
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}

	opts.DistributionVersion = "not-a-version"
	if err := opts.Validate(); err == nil {
		t.Error("expected error for malformed distribution version")
	}

	opts = DefaultOptions()
	opts.Bundler = "rollup"
	if err := opts.Validate(); err == nil {
		t.Error("expected error for unknown bundler strategy")
	}
}

func TestBanner_ByteStable(t *testing.T) {
	first := Banner("engine")
	for i := 0; i < 5; i++ {
		if got := Banner("engine"); got != first {
			t.Fatalf("banner not byte-stable: %q vs %q", got, first)
		}
	}

	if !strings.Contains(first, "DO NOT EDIT") {
		t.Errorf("banner missing DO NOT EDIT marker: %q", first)
	}
	if !strings.HasPrefix(first, "/* eslint-disable */\n") {
		t.Errorf("banner missing eslint guard: %q", first)
	}
}
