package category

import (
	"strings"
	"testing"
)

func TestBuiltinMap(t *testing.T) {
	m, err := BuiltinMap()
	if err != nil {
		t.Fatalf("BuiltinMap: %v", err)
	}
	checks := map[string]Category{
		"work":         Core,
		"sleep":        SelfCare,
		"social-media": Waste,
		"reading":      Peripheral,
		"commute":      SelfCare,
	}
	for label, want := range checks {
		if got := m[label]; got != want {
			t.Errorf("builtin[%q] = %s, want %s", label, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	if c, ok := Parse(" Self-Care "); !ok || c != SelfCare {
		t.Errorf("Parse(Self-Care) = %q, %v", c, ok)
	}
	if _, ok := Parse("unknown"); ok {
		t.Error("Parse accepted unknown category")
	}
	if _, ok := Parse(""); ok {
		t.Error("Parse accepted empty category")
	}
}

func TestDefaultSwitchWeightsComplete(t *testing.T) {
	if err := ValidateWeights(DefaultSwitchWeights()); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
}

func TestValidateWeightsMissingPair(t *testing.T) {
	w := DefaultSwitchWeights()
	delete(w, Pair{Waste, Core})
	err := ValidateWeights(w)
	if err == nil {
		t.Fatal("ValidateWeights accepted incomplete matrix")
	}
	if !strings.Contains(err.Error(), "waste->core") {
		t.Errorf("error %q does not name missing pair", err)
	}
}

func TestValidateWeightsExtraPair(t *testing.T) {
	w := DefaultSwitchWeights()
	w[Pair{Core, Core}] = 0.5
	if err := ValidateWeights(w); err == nil {
		t.Fatal("ValidateWeights accepted diagonal pair")
	}
}

func TestValidateWeightsNegative(t *testing.T) {
	w := DefaultSwitchWeights()
	w[Pair{Core, Waste}] = -1
	if err := ValidateWeights(w); err == nil {
		t.Fatal("ValidateWeights accepted negative weight")
	}
}

func TestSwitchWeightsAsymmetric(t *testing.T) {
	w := DefaultSwitchWeights()
	if w[Pair{Waste, Core}] != 0.0 {
		t.Errorf("waste->core = %v, want 0", w[Pair{Waste, Core}])
	}
	if w[Pair{Core, Waste}] != 1.0 {
		t.Errorf("core->waste = %v, want 1", w[Pair{Core, Waste}])
	}
}
