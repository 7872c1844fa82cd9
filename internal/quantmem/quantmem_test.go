package quantmem

import (
	"math"
	"testing"
)

func TestPiAccumulatorScaling(t *testing.T) {
	acc := NewPiAccumulator(4)
	got := acc.Update([]float64{1, 2, 3, 4})
	want := []float64{math.Pi, 2 * math.Pi, 3 * math.Pi, 4 * math.Pi}
	for i := range want {
		if diff := math.Abs(got[i] - want[i]); diff > 1e-12 {
			t.Fatalf("state[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPiAccumulatorTruncatesLongDelta(t *testing.T) {
	acc := NewPiAccumulator(2)
	acc.Update([]float64{1, 1, 1, 1, 1})
	got := acc.Snapshot()
	if len(got) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(got))
	}
}

func TestPiAccumulatorShortDeltaLeavesTail(t *testing.T) {
	acc := NewPiAccumulator(3)
	acc.Update([]float64{1, 1, 1})
	acc.Update([]float64{5})
	got := acc.Snapshot()
	if diff := math.Abs(got[1] - math.Pi); diff > 1e-12 {
		t.Fatalf("state[1] changed by short delta: got %v, want %v", got[1], math.Pi)
	}
	if diff := math.Abs(got[0] - 6*math.Pi); diff > 1e-12 {
		t.Fatalf("state[0] = %v, want %v", got[0], 6*math.Pi)
	}
}

func TestNotIntegerCloseForBinaryHarmonics(t *testing.T) {
	acc := NewPiAccumulator(1)
	for _, v := range []float64{0.5, 1.0, 2.0, 4.0} {
		acc.Reset()
		got := acc.Update([]float64{v})[0]
		nearest := math.Round(got)
		if math.Abs(got-nearest) < 1e-6 {
			t.Fatalf("pi-scaled value %v unexpectedly close to integer %v", got, nearest)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	if _, err := Get("does-not-exist", 4); err == nil {
		t.Fatal("expected error for unknown accumulator name")
	}
}

func TestRegistryDefaultRegistered(t *testing.T) {
	acc, err := Get("pi", 4)
	if err != nil {
		t.Fatalf("Get(pi): %v", err)
	}
	if acc.Name() != "pi" {
		t.Fatalf("Name() = %q, want %q", acc.Name(), "pi")
	}
}
