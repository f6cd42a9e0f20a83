// Package schema has configs, models and global variables for all parts of airqc.
package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// OperationalRecord is one observation for a single (date, airline) pair.
type OperationalRecord struct {
	Date              time.Time `json:"date"`               // Calendar day at UTC midnight
	Airline           string    `json:"airline"`            // One of AllAirlines
	Gate              string    `json:"gate"`               // One of AllGates
	TurnaroundMinutes float64   `json:"turnaround_minutes"` // Aircraft turnaround time
	BagSLAMinutes     float64   `json:"bag_sla_minutes"`    // Baggage delivery time
	QueueMinutes      float64   `json:"queue_minutes"`      // Security queue wait time
	ScanFailures      int       `json:"scan_failures"`      // Failed bag scans, never above TotalBags
	TotalBags         int       `json:"total_bags"`         // Bags handled in the batch
	PassengerFlow     int       `json:"passenger_flow"`     // Passenger entries
	DelayCause        string    `json:"delay_cause"`        // One of AllDelayCauses
}

// Validate checks enumeration membership and the bag count invariants.
// Continuous fields are not checked since simulation noise may push them below zero.
func (r OperationalRecord) Validate() error {
	if !IsKnownAirline(r.Airline) {
		return fmt.Errorf("%w: airline %q", ErrUnknownCategory, r.Airline)
	}
	if !IsKnownGate(r.Gate) {
		return fmt.Errorf("%w: gate %q", ErrUnknownCategory, r.Gate)
	}
	if !IsKnownDelayCause(r.DelayCause) {
		return fmt.Errorf("%w: delay cause %q", ErrUnknownCategory, r.DelayCause)
	}
	if r.TotalBags <= 0 {
		return fmt.Errorf("%w: total_bags must be positive (got %d)", ErrInvalidParameter, r.TotalBags)
	}
	if r.ScanFailures < 0 || r.ScanFailures > r.TotalBags {
		return fmt.Errorf("%w: scan_failures %d outside [0, %d]", ErrInvalidParameter, r.ScanFailures, r.TotalBags)
	}
	if r.PassengerFlow < 0 {
		return fmt.Errorf("%w: passenger_flow must be non-negative (got %d)", ErrInvalidParameter, r.PassengerFlow)
	}
	return nil
}

// Field returns the numeric value of the given field.
func (r OperationalRecord) Field(f ValueField) (float64, error) {
	switch f {
	case FieldTurnaround:
		return r.TurnaroundMinutes, nil
	case FieldBagSLA:
		return r.BagSLAMinutes, nil
	case FieldQueue:
		return r.QueueMinutes, nil
	case FieldScanFailures:
		return float64(r.ScanFailures), nil
	case FieldTotalBags:
		return float64(r.TotalBags), nil
	case FieldPassengerFlow:
		return float64(r.PassengerFlow), nil
	default:
		return 0, fmt.Errorf("%w: unknown value field %q", ErrInvalidParameter, f)
	}
}

// Category returns the categorical value of the record for a non-date group key.
func (r OperationalRecord) Category(k GroupKey) (string, error) {
	switch k {
	case GroupByDate:
		return FormatDay(r.Date), nil
	case GroupByGate:
		return r.Gate, nil
	case GroupByDelayCause:
		return r.DelayCause, nil
	case GroupByAirline:
		return r.Airline, nil
	default:
		return "", fmt.Errorf("%w: unknown group key %q", ErrInvalidParameter, k)
	}
}

// Point is a single (index, value) pair of a derived series.
// Valid is false when the value could not be computed yet.
type Point struct {
	Key   string
	Value float64
	Valid bool
}

// pointJSON is the wire form of Point, with null for absent values.
type pointJSON struct {
	Key   string   `json:"key"`
	Value *float64 `json:"value"`
}

// MarshalJSON renders absent values as null.
func (p Point) MarshalJSON() ([]byte, error) {
	out := pointJSON{Key: p.Key}
	if p.Valid {
		v := p.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null values back as absent.
func (p *Point) UnmarshalJSON(data []byte) error {
	var in pointJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Key = in.Key
	p.Valid = in.Value != nil
	p.Value = 0
	if in.Value != nil {
		p.Value = *in.Value
	}
	return nil
}

// Series is an ordered, immutable sequence of points keyed by the aggregation index.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Points)
}

// Keys returns the index of every point.
func (s Series) Keys() []string {
	keys := make([]string, len(s.Points))
	for i, p := range s.Points {
		keys[i] = p.Key
	}
	return keys
}

// Values returns the value of every point, absent ones included as zero.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// NewSeries builds a fully valid series from parallel keys and values.
func NewSeries(name string, keys []string, values []float64) Series {
	points := make([]Point, len(keys))
	for i := range keys {
		points[i] = Point{Key: keys[i], Value: values[i], Valid: true}
	}
	return Series{Name: name, Points: points}
}

// ControlLimits holds the X-bar chart center line and 3-sigma limits.
type ControlLimits struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	UCL    float64 `json:"ucl"`
	LCL    float64 `json:"lcl"`
}

// Proportion is a (defects, total) pair for one group of a P-chart.
type Proportion struct {
	Key     string `json:"key"`
	Defects int    `json:"defects"`
	Total   int    `json:"total"`
}

// PChartPoint is one group of a P-chart with its binomial control limits.
type PChartPoint struct {
	Key    string  `json:"key"`
	Rate   float64 `json:"rate"`
	Center float64 `json:"center"`
	UCL    float64 `json:"ucl"`
	LCL    float64 `json:"lcl"`
}

// CategoryCount is a raw tally for a single category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ParetoEntry is one ranked category of a Pareto analysis.
type ParetoEntry struct {
	Category          string  `json:"category"`
	Count             int     `json:"count"`
	Percent           float64 `json:"percent"`
	CumulativePercent float64 `json:"cumulative_percent"`
}

// Filter selects a subset of records. Zero Start or End means the bound was omitted.
type Filter struct {
	Airline string    `json:"airline"`
	Gates   []string  `json:"gates"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// DefaultFilter selects every airline and gate over the full record span.
func DefaultFilter() Filter {
	gates := make([]string, len(AllGates))
	copy(gates, AllGates)
	return Filter{Airline: AirlineAll, Gates: gates}
}
