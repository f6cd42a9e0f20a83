package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/airqc/schema"
)

// PChart returns the defect rate of every group.
func PChart(props []schema.Proportion) (schema.Series, error) {
	keys := make([]string, len(props))
	rates := make([]float64, len(props))
	for i, p := range props {
		rate, err := rateOf(p)
		if err != nil {
			return schema.Series{}, err
		}
		keys[i] = p.Key
		rates[i] = rate
	}
	return schema.NewSeries("pchart", keys, rates), nil
}

// PChartLimits returns every group's rate with binomial 3-sigma limits around the pooled rate.
// Limits vary with each group's sample size and are clamped to [0, 1].
func PChartLimits(props []schema.Proportion) ([]schema.PChartPoint, error) {
	var defects, total int
	for _, p := range props {
		if _, err := rateOf(p); err != nil {
			return nil, err
		}
		defects += p.Defects
		total += p.Total
	}

	out := make([]schema.PChartPoint, 0, len(props))
	if total == 0 {
		return out, nil
	}
	center := float64(defects) / float64(total)
	for _, p := range props {
		sigma := math.Sqrt(center * (1 - center) / float64(p.Total))
		out = append(out, schema.PChartPoint{
			Key:    p.Key,
			Rate:   float64(p.Defects) / float64(p.Total),
			Center: center,
			UCL:    math.Min(1, center+sigmaWidth*sigma),
			LCL:    math.Max(0, center-sigmaWidth*sigma),
		})
	}
	return out, nil
}

func rateOf(p schema.Proportion) (float64, error) {
	if p.Total == 0 {
		return 0, fmt.Errorf("%w: group %q has no bags", schema.ErrDivisionByZero, p.Key)
	}
	if p.Total < 0 || p.Defects < 0 || p.Defects > p.Total {
		return 0, fmt.Errorf("%w: group %q has %d defects out of %d",
			schema.ErrInvalidParameter, p.Key, p.Defects, p.Total)
	}
	return float64(p.Defects) / float64(p.Total), nil
}
