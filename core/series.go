package core

import (
	"fmt"

	"github.com/huangsam/airqc/core/agg"
	"github.com/huangsam/airqc/core/algo"
	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
)

// sequentialMetrics depend on point order and only make sense over dates.
var sequentialMetrics = map[schema.MetricKind]bool{
	schema.MetricCUSUM:  true,
	schema.MetricEWMA:   true,
	schema.MetricMovAvg: true,
}

// buildSeries filters records, aggregates them and applies the configured metric.
func buildSeries(cfg *contract.Config, records []schema.OperationalRecord) (schema.SeriesResult, error) {
	if sequentialMetrics[cfg.Metric] && cfg.GroupBy != schema.GroupByDate {
		return schema.SeriesResult{}, fmt.Errorf("%w: %s needs date grouping, got %s",
			schema.ErrInvalidParameter, cfg.Metric, cfg.GroupBy)
	}

	filtered, err := agg.Filter(records, cfg.Filter())
	if err != nil {
		return schema.SeriesResult{}, err
	}

	result := schema.SeriesResult{
		Metric:   cfg.Metric,
		GroupKey: cfg.GroupBy,
		Field:    cfg.Field,
		Reducer:  cfg.Reducer,
	}

	if cfg.Metric == schema.MetricPChart {
		return pchartSeries(result, cfg, filtered)
	}

	input, err := agg.Aggregate(filtered, cfg.GroupBy, cfg.Field, cfg.Reducer)
	if err != nil {
		return schema.SeriesResult{}, err
	}
	result.Input = input

	switch cfg.Metric {
	case schema.MetricRawData:
		result.Output = input
	case schema.MetricLimits:
		limits, ooc, err := limitsOrNil(input)
		if err != nil {
			return schema.SeriesResult{}, err
		}
		if limits == nil {
			return schema.SeriesResult{}, fmt.Errorf("%w: control limits need at least 2 groups, got %d",
				schema.ErrInsufficientData, input.Len())
		}
		result.Output = input
		result.Limits = limits
		result.OutOfControl = ooc
	case schema.MetricCUSUM:
		result.Output, err = algo.CUSUM(input)
	case schema.MetricEWMA:
		result.Output, err = algo.EWMA(input, cfg.Alpha)
	case schema.MetricMovAvg:
		result.Output, err = algo.MovingAverage(input, cfg.Window)
	default:
		err = fmt.Errorf("%w: metric %q", schema.ErrInvalidParameter, cfg.Metric)
	}
	if err != nil {
		return schema.SeriesResult{}, err
	}
	return result, nil
}

// pchartSeries runs the P-chart over scan failures per group; the field and reducer are not used.
func pchartSeries(result schema.SeriesResult, cfg *contract.Config, filtered []schema.OperationalRecord) (schema.SeriesResult, error) {
	props, err := agg.AggregateProportions(filtered, cfg.GroupBy)
	if err != nil {
		return schema.SeriesResult{}, err
	}
	keys := make([]string, len(props))
	defects := make([]float64, len(props))
	for i, p := range props {
		keys[i] = p.Key
		defects[i] = float64(p.Defects)
	}
	result.Field = schema.FieldScanFailures
	result.Reducer = schema.ReduceSum
	result.Input = schema.NewSeries(fmt.Sprintf("sum(%s) by %s", schema.FieldScanFailures, cfg.GroupBy), keys, defects)

	if result.Output, err = algo.PChart(props); err != nil {
		return schema.SeriesResult{}, err
	}
	if result.PChart, err = algo.PChartLimits(props); err != nil {
		return schema.SeriesResult{}, err
	}
	return result, nil
}

// buildPareto filters records and ranks the configured category.
func buildPareto(cfg *contract.Config, records []schema.OperationalRecord) ([]schema.ParetoEntry, error) {
	filtered, err := agg.Filter(records, cfg.Filter())
	if err != nil {
		return nil, err
	}
	return algo.Pareto(filtered, cfg.Category)
}
