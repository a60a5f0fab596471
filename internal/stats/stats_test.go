package stats

import (
	"math"
	"testing"
)

func TestRecord_Offer(t *testing.T) {
	tests := []struct {
		name    string
		start   Record
		offer   float64
		want    Record
		changed bool
	}{
		{"unset accepts", Record{}, 12, Record{Value: 12, Set: true}, true},
		{"unset accepts zero", Record{}, 0, Record{Value: 0, Set: true}, true},
		{"smaller wins", Record{Value: 12, Set: true}, 9.5, Record{Value: 9.5, Set: true}, true},
		{"tie replaces", Record{Value: 12, Set: true}, 12, Record{Value: 12, Set: true}, true},
		{"larger loses", Record{Value: 12, Set: true}, 13, Record{Value: 12, Set: true}, false},
		{"negative rejected", Record{}, -1, Record{}, false},
		{"negative rejected when set", Record{Value: 3, Set: true}, -0.5, Record{Value: 3, Set: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.start
			if got := r.Offer(tt.offer); got != tt.changed {
				t.Fatalf("Offer(%v) = %v, want %v", tt.offer, got, tt.changed)
			}
			if r != tt.want {
				t.Fatalf("record = %+v, want %+v", r, tt.want)
			}
		})
	}
}

func TestBestTimes_OfferStage(t *testing.T) {
	b := NewBestTimes()
	if !b.OfferStage(KindDrone, 40) {
		t.Fatal("OfferStage(drone) = false, want true")
	}
	if b.OfferStage(KindExterminate, 10) {
		t.Fatal("OfferStage(exterminate) = true, want untracked kind ignored")
	}
	if _, ok := b.Stages[KindExterminate]; ok {
		t.Fatal("untracked kind should not get a record")
	}
	if got := b.Stage(KindDrone); !got.Set || got.Value != 40 {
		t.Fatalf("Stage(drone) = %+v, want 40", got)
	}

	clone := b.Clone()
	clone.OfferStage(KindDrone, 1)
	if b.Stage(KindDrone).Value != 40 {
		t.Fatal("Clone should not share the stage map")
	}
}

func TestFilteredMean(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"empty", nil, 0},
		{"one", []float64{7}, 7},
		{"three plain mean keeps outlier", []float64{10, 10, 100}, 40},
		{"outlier excluded", []float64{10, 10, 10, 10, 100}, 10},
		{"no outliers", []float64{100, 110, 120, 130}, 115},
		// sorted 1 2 3 4 5 6 7 8: Q1=sorted[2]=3, Q3=sorted[6]=7, bounds [-3, 13]
		{"positional quartiles", []float64{8, 1, 7, 2, 6, 3, 5, 4}, 4.5},
		// sorted 1 2 3 4 50: Q1=2, Q3=4, bounds [-1, 7]
		{"high outlier dropped", []float64{50, 1, 2, 3, 4}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilteredMean(tt.samples); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("FilteredMean(%v) = %v, want %v", tt.samples, got, tt.want)
			}
		})
	}
}

func TestRunningAverage_KeepsOutliersForLaterUpdates(t *testing.T) {
	a := NewRunningAverage()
	for _, d := range []float64{10, 10, 10, 10} {
		a.Update(d)
	}
	if got := a.Update(100); got != 10 {
		t.Fatalf("Update(100) mean = %v, want 10", got)
	}
	if a.Count() != 5 {
		t.Fatalf("Count() = %d, want 5 (outlier retained)", a.Count())
	}
	samples := a.Samples()
	if samples[4] != 100 {
		t.Fatalf("Samples()[4] = %v, want 100 in insertion order", samples[4])
	}
	samples[0] = -1
	if a.Samples()[0] != 10 {
		t.Fatal("Samples() should return a copy")
	}
}

func TestRunningAverage_Quantile(t *testing.T) {
	a := NewRunningAverage()
	if got := a.Quantile(0.5); got != 0 {
		t.Fatalf("Quantile on empty = %v, want 0", got)
	}
	for _, d := range []float64{60, 60, 60} {
		a.Update(d)
	}
	if got := a.Quantile(0.5); math.Abs(got-60) > 1e-9 {
		t.Fatalf("Quantile(0.5) = %v, want 60", got)
	}
}

func TestKind_Label(t *testing.T) {
	if KindDrone.Label() != "Drone" || Kind("").Label() != "Stage" {
		t.Fatalf("unexpected labels: %q %q", KindDrone.Label(), Kind("").Label())
	}
	if !KindCache.Tracked() || KindExterminate.Tracked() {
		t.Fatal("Tracked() mismatch")
	}
}
