package main

import "testing"

func TestParseArgsSplitsOptionsAndPositional(t *testing.T) {
	as := parseArgs([]string{"--dark", "--symbol-bits", "4", "in.png", "--strategy=rgb", "out.bin"})

	if v, err := as.boolOpt("dark", false); err != nil || v != true {
		t.Fatalf("dark: got %v, %v", v, err)
	}
	if v, err := as.intOpt("symbol-bits", 0); err != nil || v != 4 {
		t.Fatalf("symbol-bits: got %v, %v", v, err)
	}
	if got := as.stringOpt("strategy", ""); got != "rgb" {
		t.Fatalf("strategy: got %q", got)
	}
	if want := []string{"in.png", "out.bin"}; len(as.positional) != len(want) ||
		as.positional[0] != want[0] || as.positional[1] != want[1] {
		t.Fatalf("positional: got %v, want %v", as.positional, want)
	}
}

func TestParseArgsMissingOptFallsBackToDefault(t *testing.T) {
	as := parseArgs([]string{"a.png", "b.png"})
	if v, err := as.intOpt("max-dim", 1024); err != nil || v != 1024 {
		t.Fatalf("expected default 1024, got %v, %v", v, err)
	}
}

func TestParseArgsBadIntOptErrors(t *testing.T) {
	as := parseArgs([]string{"--skip", "not-a-number"})
	if _, err := as.intOpt("skip", 0); err == nil {
		t.Fatalf("expected error parsing non-numeric --skip value")
	}
}
