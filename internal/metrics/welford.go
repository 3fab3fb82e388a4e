// Package metrics keeps running statistics over a stream of observations.
package metrics

import "math"

// Running holds count, extremes, mean and variance of the observations seen
// so far using Welford's online algorithm. The zero value is empty.
type Running struct {
	Count int
	Mean  float64
	M2    float64 // sum of squared differences from the mean
	Min   float64
	Max   float64
}

// Update adds one observation.
// Reference: https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Welford's_online_algorithm
func (r *Running) Update(v float64) {
	r.Count++
	if r.Count == 1 {
		r.Min, r.Max = v, v
	} else {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}

	delta := v - r.Mean
	r.Mean += delta / float64(r.Count)
	delta2 := v - r.Mean
	r.M2 += delta * delta2
}

// Empty reports whether no observation has been added
func (r *Running) Empty() bool {
	return r.Count == 0
}

// StdDev returns the population standard deviation, 0 with fewer than 2 observations
func (r *Running) StdDev() float64 {
	if r.Count < 2 {
		return 0
	}
	return math.Sqrt(r.M2 / float64(r.Count))
}
