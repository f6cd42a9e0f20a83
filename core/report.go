package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/huangsam/airqc/core/agg"
	"github.com/huangsam/airqc/core/algo"
	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
)

// reportSection computes one dashboard section from the filtered records.
// Each section writes only to its own field of the result.
type reportSection struct {
	name string
	run  func(records []schema.OperationalRecord, cfg *contract.Config, out *schema.ReportResult) error
}

// reportSections lists every dashboard section.
var reportSections = []reportSection{
	{"turnaround", turnaroundSection},
	{"bag sla", bagSLASection},
	{"queue", queueSection},
	{"gate usage", gateUsageSection},
	{"scan failures", scanFailureSection},
	{"passenger flow", passengerFlowSection},
	{"delay causes", delayCauseSection},
}

// buildReport filters records and computes all sections on a worker pool of cfg.Workers goroutines.
func buildReport(ctx context.Context, cfg *contract.Config, records []schema.OperationalRecord) (schema.ReportResult, error) {
	filter := cfg.Filter()
	filtered, err := agg.Filter(records, filter)
	if err != nil {
		return schema.ReportResult{}, err
	}

	result := schema.ReportResult{
		Filter:      filter,
		RecordCount: len(filtered),
		Start:       filter.Start,
		End:         filter.End,
		Alpha:       cfg.Alpha,
		Window:      cfg.Window,
	}
	first, last := agg.RecordSpan(filtered)
	if result.Start.IsZero() {
		result.Start = first
	}
	if result.End.IsZero() {
		result.End = last
	}

	sectionCh := make(chan reportSection, len(reportSections))
	errCh := make(chan error, len(reportSections))
	var wg sync.WaitGroup

	for range max(cfg.Workers, 1) {
		wg.Go(func() {
			for s := range sectionCh {
				if err := ctx.Err(); err != nil {
					errCh <- err
					continue
				}
				if err := s.run(filtered, cfg, &result); err != nil {
					errCh <- fmt.Errorf("%s: %w", s.name, err)
				}
			}
		})
	}

	for _, s := range reportSections {
		sectionCh <- s
	}
	close(sectionCh)

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return schema.ReportResult{}, errors.Join(errs...)
	}
	return result, nil
}

// dailyMean aggregates a field to its mean per day.
func dailyMean(records []schema.OperationalRecord, field schema.ValueField) (schema.Series, error) {
	return agg.Aggregate(records, schema.GroupByDate, field, schema.ReduceMean)
}

// limitsOrNil returns control limits, or nil when the series is too short.
func limitsOrNil(s schema.Series) (*schema.ControlLimits, []string, error) {
	limits, err := algo.ControlLimits(s)
	if errors.Is(err, schema.ErrInsufficientData) {
		return nil, []string{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &limits, algo.OutOfControl(s, limits), nil
}

func turnaroundSection(records []schema.OperationalRecord, _ *contract.Config, out *schema.ReportResult) error {
	series, err := dailyMean(records, schema.FieldTurnaround)
	if err != nil {
		return err
	}
	limits, ooc, err := limitsOrNil(series)
	if err != nil {
		return err
	}
	out.Turnaround = schema.LimitsSection{Series: series, Limits: limits, OutOfControl: ooc}
	return nil
}

func bagSLASection(records []schema.OperationalRecord, _ *contract.Config, out *schema.ReportResult) error {
	series, err := dailyMean(records, schema.FieldBagSLA)
	if err != nil {
		return err
	}
	cusum, err := algo.CUSUM(series)
	if err != nil {
		return err
	}
	out.BagSLA = schema.TrendSection{Raw: series, Derived: cusum}
	return nil
}

func queueSection(records []schema.OperationalRecord, cfg *contract.Config, out *schema.ReportResult) error {
	series, err := dailyMean(records, schema.FieldQueue)
	if err != nil {
		return err
	}
	out.Queue = schema.TrendSection{Raw: series, Derived: schema.Series{Name: "ewma(" + series.Name + ")", Points: []schema.Point{}}}
	if series.Len() == 0 {
		return nil
	}
	ewma, err := algo.EWMA(series, cfg.Alpha)
	if err != nil {
		return err
	}
	out.Queue.Derived = ewma
	return nil
}

func gateUsageSection(records []schema.OperationalRecord, _ *contract.Config, out *schema.ReportResult) error {
	counts, err := agg.CountCategories(records, schema.GroupByGate)
	if err != nil {
		return err
	}
	out.GateUsage = agg.SortCounts(counts, schema.GroupByGate)
	return nil
}

func scanFailureSection(records []schema.OperationalRecord, _ *contract.Config, out *schema.ReportResult) error {
	props, err := agg.AggregateProportions(records, schema.GroupByDate)
	if err != nil {
		return err
	}
	rates, err := algo.PChart(props)
	if err != nil {
		return err
	}
	points, err := algo.PChartLimits(props)
	if err != nil {
		return err
	}
	out.ScanFailures = schema.PChartSection{Rates: rates, Points: points}
	return nil
}

func passengerFlowSection(records []schema.OperationalRecord, cfg *contract.Config, out *schema.ReportResult) error {
	series, err := agg.Aggregate(records, schema.GroupByDate, schema.FieldPassengerFlow, schema.ReduceSum)
	if err != nil {
		return err
	}
	ma, err := algo.MovingAverage(series, cfg.Window)
	if err != nil {
		return err
	}
	out.PassengerFlow = schema.TrendSection{Raw: series, Derived: ma}
	return nil
}

func delayCauseSection(records []schema.OperationalRecord, _ *contract.Config, out *schema.ReportResult) error {
	entries, err := algo.Pareto(records, schema.GroupByDelayCause)
	if err != nil {
		return err
	}
	out.DelayCauses = entries
	return nil
}
