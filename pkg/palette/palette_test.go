package palette

import "testing"

func TestColorsTrimsToColorBits(t *testing.T) {
	colors, err := Colors(false, 2)
	if err != nil {
		t.Fatalf("Colors: %v", err)
	}
	if len(colors) != 4 {
		t.Fatalf("expected 4 colors, got %d", len(colors))
	}
	if colors[0] != lightColors[0] || colors[3] != lightColors[3] {
		t.Fatalf("unexpected trimmed table: %v", colors)
	}
}

func TestColorsRejectsUnsupportedBits(t *testing.T) {
	if _, err := Colors(true, 10); err == nil {
		t.Fatalf("expected error for unsupported color_bits")
	}
}

func TestColorsDarkNarrowVsWideSwitch(t *testing.T) {
	narrow, err := Colors(true, 2)
	if err != nil {
		t.Fatalf("Colors(dark, 2): %v", err)
	}
	if narrow[2] != darkColorsNarrow[2] {
		t.Fatalf("expected narrow dark table below 3 bits")
	}
	wide, err := Colors(true, 3)
	if err != nil {
		t.Fatalf("Colors(dark, 3): %v", err)
	}
	if wide[2] != darkColorsWide[2] {
		t.Fatalf("expected wide dark table at 3 bits")
	}
}

func TestNearestExactMatchLab(t *testing.T) {
	p, err := New(false, 3, StrategyLab)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, c := range p.Colors() {
		got := p.Nearest(c.R, c.G, c.B)
		if got != i {
			t.Fatalf("color %d: expected exact match to resolve to itself, got %d", i, got)
		}
	}
}

func TestNearestExactMatchRGB(t *testing.T) {
	p, err := New(false, 3, StrategyRGB)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, c := range p.Colors() {
		if i == 0 {
			continue // index 0 always resolves to 0 via the early short-circuit
		}
		got := p.Nearest(c.R, c.G, c.B)
		if got != i {
			t.Fatalf("color %d: expected exact match to resolve to itself, got %d", i, got)
		}
	}
}

func TestNearestSingleColorAlwaysZero(t *testing.T) {
	p, err := New(true, 0, StrategyLab)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.Nearest(200, 10, 10); got != 0 {
		t.Fatalf("expected 0 for single-entry palette, got %d", got)
	}
}

func TestDeltaE76Symmetric(t *testing.T) {
	a := toLab(lightColors[1])
	b := toLab(lightColors[5])
	if deltaE76(a, b) != deltaE76(b, a) {
		t.Fatalf("expected symmetric distance")
	}
}
