// Package analytics computes numeric summaries over catalog distributions.
package analytics

import (
	"math"
	"slices"
)

// Summary describes a distribution.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize returns count, mean, median, min and max of values. An empty
// input yields the zero Summary.
func Summarize(values []int) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	sum := 0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	return Summary{
		Count:  n,
		Mean:   Round(float64(sum)/float64(n), 2),
		Median: median,
		Min:    float64(sorted[0]),
		Max:    float64(sorted[n-1]),
	}
}

// Bin is one histogram bucket covering [Start, End). The last bin also
// includes End.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram splits values into equal-width bins over [min, max]. When every
// value is the same a single bin holds them all; no values yield no bins.
func Histogram(values []int, bins int) []Bin {
	if len(values) == 0 {
		return []Bin{}
	}
	if bins < 1 {
		bins = 1
	}

	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		return []Bin{{Start: float64(lo), End: float64(hi), Count: len(values)}}
	}

	width := float64(hi-lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Start = Round(float64(lo)+float64(i)*width, 2)
		out[i].End = Round(float64(lo)+float64(i+1)*width, 2)
	}
	out[bins-1].End = float64(hi)

	for _, v := range values {
		i := int(float64(v-lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// Frequency is the number of occurrences of a value.
type Frequency struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// Frequencies counts occurrences of each value, in ascending value order.
func Frequencies(values []int) []Frequency {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	out := make([]Frequency, 0, len(counts))
	for v, c := range counts {
		out = append(out, Frequency{Value: v, Count: c})
	}
	slices.SortFunc(out, func(a, b Frequency) int { return a.Value - b.Value })
	return out
}

// Share returns part as a percentage of total rounded to one decimal, or 0
// when total is 0.
func Share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(part)*100/float64(total), 1)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
