// Package algo has the statistical process control transforms.
// Every transform is pure: inputs are never modified and a fresh Series is returned.
package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/airqc/schema"
)

// sigmaWidth is the number of standard deviations between the center line and a limit.
const sigmaWidth = 3.0

// values extracts the numeric values of a series, rejecting absent or non-finite points.
func values(s schema.Series) ([]float64, error) {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		if !p.Valid {
			return nil, fmt.Errorf("%w: absent value at %q", schema.ErrInvalidParameter, p.Key)
		}
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return nil, fmt.Errorf("%w: non-finite value at %q", schema.ErrInvalidParameter, p.Key)
		}
		out[i] = p.Value
	}
	return out, nil
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStdDev returns the n-1 standard deviation, or 0 when fewer than two values exist.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// scan folds xs left to right and keeps every intermediate accumulator.
func scan[T, A any](xs []T, first func(T) A, step func(A, T) A) []A {
	out := make([]A, len(xs))
	for i, x := range xs {
		if i == 0 {
			out[i] = first(x)
			continue
		}
		out[i] = step(out[i-1], x)
	}
	return out
}

// ControlLimits computes the X-bar center line and 3-sigma limits of a series.
func ControlLimits(s schema.Series) (schema.ControlLimits, error) {
	xs, err := values(s)
	if err != nil {
		return schema.ControlLimits{}, err
	}
	if len(xs) < 2 {
		return schema.ControlLimits{}, fmt.Errorf("%w: control limits need at least 2 points, got %d",
			schema.ErrInsufficientData, len(xs))
	}
	mean := Mean(xs)
	std := SampleStdDev(xs)
	return schema.ControlLimits{
		Mean:   mean,
		StdDev: std,
		UCL:    mean + sigmaWidth*std,
		LCL:    mean - sigmaWidth*std,
	}, nil
}

// OutOfControl returns the keys of points strictly above UCL or below LCL.
// Absent points are skipped.
func OutOfControl(s schema.Series, limits schema.ControlLimits) []string {
	out := make([]string, 0)
	for _, p := range s.Points {
		if !p.Valid {
			continue
		}
		if p.Value > limits.UCL || p.Value < limits.LCL {
			out = append(out, p.Key)
		}
	}
	return out
}

// CUSUM returns the running sum of deviations from the full-series mean.
// The last element is zero up to rounding.
func CUSUM(s schema.Series) (schema.Series, error) {
	xs, err := values(s)
	if err != nil {
		return schema.Series{}, err
	}
	baseline := Mean(xs)
	sums := scan(xs,
		func(x float64) float64 { return x - baseline },
		func(acc, x float64) float64 { return acc + (x - baseline) },
	)
	return schema.NewSeries("cusum("+s.Name+")", s.Keys(), sums), nil
}

// EWMA returns the exponentially weighted moving average seeded with the first value.
func EWMA(s schema.Series, alpha float64) (schema.Series, error) {
	if math.IsNaN(alpha) || alpha <= 0 || alpha > 1 {
		return schema.Series{}, fmt.Errorf("%w: alpha must be in (0, 1], got %v", schema.ErrInvalidParameter, alpha)
	}
	xs, err := values(s)
	if err != nil {
		return schema.Series{}, err
	}
	if len(xs) == 0 {
		return schema.Series{}, fmt.Errorf("%w: ewma needs at least 1 point", schema.ErrInsufficientData)
	}
	smoothed := scan(xs,
		func(x float64) float64 { return x },
		func(acc, x float64) float64 { return alpha*x + (1-alpha)*acc },
	)
	return schema.NewSeries(fmt.Sprintf("ewma(%s, %g)", s.Name, alpha), s.Keys(), smoothed), nil
}

// MovingAverage returns the trailing mean over window points.
// The first window-1 positions are absent.
func MovingAverage(s schema.Series, window int) (schema.Series, error) {
	if window <= 0 {
		return schema.Series{}, fmt.Errorf("%w: window must be positive, got %d", schema.ErrInvalidParameter, window)
	}
	xs, err := values(s)
	if err != nil {
		return schema.Series{}, err
	}

	// Each window is summed directly so that window 1 reproduces the input exactly.
	points := make([]schema.Point, len(xs))
	for i := range xs {
		points[i].Key = s.Points[i].Key
		if i < window-1 {
			continue
		}
		points[i].Value = Mean(xs[i-window+1 : i+1])
		points[i].Valid = true
	}
	return schema.Series{Name: fmt.Sprintf("ma(%s, %d)", s.Name, window), Points: points}, nil
}
