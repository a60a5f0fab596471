// Package stats keeps best-time records and the outlier-filtered running
// average of bounty completion times.
package stats

import (
	"sort"

	"github.com/influxdata/tdigest"
)

// Record holds the best (smallest) duration seen, in seconds.
type Record struct {
	Value float64
	Set   bool
}

// Offer replaces the record when d is non-negative and either no value is
// recorded yet or d is not larger than the current best.
func (r *Record) Offer(d float64) bool {
	if d < 0 {
		return false
	}
	if r.Set && d > r.Value {
		return false
	}
	r.Value = d
	r.Set = true
	return true
}

// Kind identifies a bounty stage type.
type Kind string

const (
	KindRescue      Kind = "rescue"
	KindAssassinate Kind = "assassinate"
	KindCapture     Kind = "capture"
	KindCache       Kind = "cache"
	KindDrone       Kind = "drone"
	KindExterminate Kind = "exterminate"
)

// TrackedKinds lists the stage kinds that keep a best-time record, in
// display order.
var TrackedKinds = []Kind{KindRescue, KindAssassinate, KindCapture, KindCache, KindDrone}

// Tracked reports whether k keeps a best-time record.
func (k Kind) Tracked() bool {
	for _, tk := range TrackedKinds {
		if tk == k {
			return true
		}
	}
	return false
}

// Label returns a display label for the kind.
func (k Kind) Label() string {
	switch k {
	case KindRescue:
		return "Rescue"
	case KindAssassinate:
		return "Assassinate"
	case KindCapture:
		return "Capture"
	case KindCache:
		return "Cache"
	case KindDrone:
		return "Drone"
	case KindExterminate:
		return "Exterminate"
	case "":
		return "Stage"
	default:
		return string(k)
	}
}

// BestTimes is the overall best completion plus one record per tracked kind.
type BestTimes struct {
	Overall Record
	Stages  map[Kind]Record
}

// NewBestTimes returns empty records for every tracked kind.
func NewBestTimes() BestTimes {
	stages := make(map[Kind]Record, len(TrackedKinds))
	for _, k := range TrackedKinds {
		stages[k] = Record{}
	}
	return BestTimes{Stages: stages}
}

// OfferStage updates the record for kind. Untracked kinds are ignored.
func (b *BestTimes) OfferStage(kind Kind, d float64) bool {
	if !kind.Tracked() {
		return false
	}
	if b.Stages == nil {
		b.Stages = make(map[Kind]Record, len(TrackedKinds))
	}
	rec := b.Stages[kind]
	changed := rec.Offer(d)
	b.Stages[kind] = rec
	return changed
}

// Stage returns the record for kind.
func (b BestTimes) Stage(kind Kind) Record {
	return b.Stages[kind]
}

// Clone returns a copy that shares no map with b.
func (b BestTimes) Clone() BestTimes {
	out := BestTimes{Overall: b.Overall, Stages: make(map[Kind]Record, len(b.Stages))}
	for k, v := range b.Stages {
		out.Stages[k] = v
	}
	return out
}

// RunningAverage keeps every completion sample and the IQR-filtered mean.
type RunningAverage struct {
	samples []float64
	mean    float64
	digest  *tdigest.TDigest
}

// NewRunningAverage returns an empty average.
func NewRunningAverage() *RunningAverage {
	return &RunningAverage{digest: tdigest.NewWithCompression(100)}
}

// Update appends d and recomputes the mean from the whole history.
func (a *RunningAverage) Update(d float64) float64 {
	a.samples = append(a.samples, d)
	if a.digest == nil {
		a.digest = tdigest.NewWithCompression(100)
	}
	a.digest.Add(d, 1)
	a.mean = FilteredMean(a.samples)
	return a.mean
}

// Mean returns the current filtered mean.
func (a *RunningAverage) Mean() float64 {
	return a.mean
}

// Count returns the number of retained samples.
func (a *RunningAverage) Count() int {
	return len(a.samples)
}

// Samples returns a copy of the retained samples in insertion order.
func (a *RunningAverage) Samples() []float64 {
	out := make([]float64, len(a.samples))
	copy(out, a.samples)
	return out
}

// Quantile returns the approximate q-quantile of all samples, or 0 when
// empty. It is display-only and never feeds the filtered mean.
func (a *RunningAverage) Quantile(q float64) float64 {
	if a.digest == nil || len(a.samples) == 0 {
		return 0
	}
	return a.digest.Quantile(q)
}

// FilteredMean returns the mean of samples after dropping IQR outliers.
// Fewer than four samples use the plain mean. Quartiles are positional:
// Q1 = sorted[n/4], Q3 = sorted[3n/4].
func FilteredMean(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if n < 4 {
		return mean(samples)
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	q1 := sorted[n/4]
	q3 := sorted[(3*n)/4]
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var sum float64
	var kept int
	for _, s := range samples {
		if s >= lower && s <= upper {
			sum += s
			kept++
		}
	}
	if kept == 0 {
		return 0
	}
	return sum / float64(kept)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
