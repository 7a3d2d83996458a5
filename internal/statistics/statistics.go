// Package statistics accumulates flight statistics: chunk churn, discoveries
// and how long chunk streaming took.
package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lox/deepfield/internal/celestial"
)

// TickSample is what one universe tick contributes.
type TickSample struct {
	Generated   int
	Evicted     int
	Resident    int
	Discoveries []celestial.Kind
	// StreamTime is only recorded for ticks that generated chunks.
	StreamTime time.Duration
}

// Timings tracks a distribution of durations in milliseconds.
type Timings struct {
	Count  int
	Sum    float64
	SumSq  float64
	Max    float64
	Values []float64
}

// Add records d.
func (t *Timings) Add(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	t.Count++
	t.Sum += ms
	t.SumSq += ms * ms
	t.Values = append(t.Values, ms)
	if ms > t.Max {
		t.Max = ms
	}
}

// Mean returns the arithmetic mean in milliseconds.
func (t *Timings) Mean() float64 {
	if t.Count == 0 {
		return 0
	}
	return t.Sum / float64(t.Count)
}

// Variance returns the sample variance.
func (t *Timings) Variance() float64 {
	if t.Count < 2 {
		return 0
	}
	mean := t.Mean()
	v := (t.SumSq - float64(t.Count)*mean*mean) / float64(t.Count-1)
	if v < 0 {
		return 0
	}
	return v
}

func (t *Timings) StdDev() float64 {
	return math.Sqrt(t.Variance())
}

// Median returns the 50th percentile.
func (t *Timings) Median() float64 {
	return t.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p (0.0 to 1.0).
func (t *Timings) Percentile(p float64) float64 {
	if len(t.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(t.Values))
	copy(sorted, t.Values)
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(1, p))
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Flight summarises one flight through the universe.
type Flight struct {
	Ticks        int
	Generated    int
	Evicted      int
	PeakResident int
	Discoveries  int
	ByKind       map[celestial.Kind]int
	Stream       Timings
}

// Add incorporates one tick.
func (f *Flight) Add(s TickSample) {
	f.Ticks++
	f.Generated += s.Generated
	f.Evicted += s.Evicted
	if s.Resident > f.PeakResident {
		f.PeakResident = s.Resident
	}
	if len(s.Discoveries) > 0 && f.ByKind == nil {
		f.ByKind = make(map[celestial.Kind]int)
	}
	for _, k := range s.Discoveries {
		f.Discoveries++
		f.ByKind[k]++
	}
	if s.Generated > 0 {
		f.Stream.Add(s.StreamTime)
	}
}

// Resident returns how many chunks should still be loaded: everything
// generated minus everything evicted.
func (f *Flight) Resident() int {
	return f.Generated - f.Evicted
}

// Validate checks the counters agree with each other.
func (f *Flight) Validate() error {
	if f.Ticks <= 0 {
		return fmt.Errorf("invalid tick count: %d", f.Ticks)
	}
	if f.Evicted > f.Generated {
		return fmt.Errorf("evicted (%d) exceeds generated (%d)", f.Evicted, f.Generated)
	}
	total := 0
	for _, n := range f.ByKind {
		total += n
	}
	if total != f.Discoveries {
		return fmt.Errorf("discoveries by kind (%d) do not match total (%d)", total, f.Discoveries)
	}
	if len(f.Stream.Values) != f.Stream.Count {
		return fmt.Errorf("timing values (%d) do not match count (%d)", len(f.Stream.Values), f.Stream.Count)
	}
	return nil
}

// Summary renders a short multi-line report.
func (f *Flight) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ticks: %d\n", f.Ticks)
	fmt.Fprintf(&b, "chunks: %d generated, %d evicted, peak %d resident\n", f.Generated, f.Evicted, f.PeakResident)
	fmt.Fprintf(&b, "stream: mean %.3fms p50 %.3fms p95 %.3fms max %.3fms\n",
		f.Stream.Mean(), f.Stream.Median(), f.Stream.Percentile(0.95), f.Stream.Max)
	fmt.Fprintf(&b, "discoveries: %d\n", f.Discoveries)
	for _, k := range celestial.Kinds() {
		if n := f.ByKind[k]; n > 0 {
			fmt.Fprintf(&b, "  %-15s %d\n", k, n)
		}
	}
	return b.String()
}
