package sim

import (
	"math"
	"slices"
)

// Stats summarizes the callback values seen by a sampling run.
type Stats struct {
	Count  int     `yaml:"count"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
	Mean   float64 `yaml:"mean"`
	Var    float64 `yaml:"var"`
	StdDev float64 `yaml:"stddev"`
	P50    float64 `yaml:"p50"`
	P90    float64 `yaml:"p90"`
	P99    float64 `yaml:"p99"`
}

// summarize computes population statistics and interpolated percentiles.
func summarize(values []int) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := float64(len(sorted))
	var sum, sumSq float64
	for _, v := range sorted {
		sum += float64(v)
	}
	mean := sum / n
	for _, v := range sorted {
		d := float64(v) - mean
		sumSq += d * d
	}

	st := Stats{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  mean,
		Var:   sumSq / n,
		P50:   quantile(sorted, 0.50),
		P90:   quantile(sorted, 0.90),
		P99:   quantile(sorted, 0.99),
	}
	st.StdDev = math.Sqrt(st.Var)
	return st
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []int, q float64) float64 {
	last := len(sorted) - 1
	pos := math.Min(math.Max(q, 0), 1) * float64(last)
	i := int(pos)
	if i >= last {
		return float64(sorted[last])
	}
	frac := pos - float64(i)
	return float64(sorted[i]) + frac*float64(sorted[i+1]-sorted[i])
}
