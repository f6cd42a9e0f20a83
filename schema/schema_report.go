package schema

import "time"

// LimitsSection is an X-bar chart: the daily series plus its control limits.
// Limits is nil when the series is too short to estimate a spread.
type LimitsSection struct {
	Series       Series         `json:"series"`
	Limits       *ControlLimits `json:"limits"`
	OutOfControl []string       `json:"out_of_control"`
}

// PChartSection is the scan-failure proportion chart.
type PChartSection struct {
	Rates  Series        `json:"rates"`
	Points []PChartPoint `json:"points"`
}

// TrendSection pairs a raw daily series with a derived one (CUSUM, EWMA or moving average).
type TrendSection struct {
	Raw     Series `json:"raw"`
	Derived Series `json:"derived"`
}

// ReportResult holds every dashboard section computed from one filtered record set.
type ReportResult struct {
	Filter        Filter          `json:"filter"`
	RecordCount   int             `json:"record_count"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Turnaround    LimitsSection   `json:"turnaround"`
	BagSLA        TrendSection    `json:"bag_sla_cusum"`
	Queue         TrendSection    `json:"queue_ewma"`
	GateUsage     []CategoryCount `json:"gate_usage"`
	ScanFailures  PChartSection   `json:"scan_failures"`
	PassengerFlow TrendSection    `json:"passenger_flow"`
	DelayCauses   []ParetoEntry   `json:"delay_causes"`
	Alpha         float64         `json:"alpha"`
	Window        int             `json:"window"`
}

// SeriesResult is the output of a single metric run over one aggregated series.
type SeriesResult struct {
	Metric       MetricKind     `json:"metric"`
	GroupKey     GroupKey       `json:"group_key"`
	Field        ValueField     `json:"field"`
	Reducer      Reducer        `json:"reducer"`
	Input        Series         `json:"input"`
	Output       Series         `json:"output"`
	Limits       *ControlLimits `json:"limits,omitempty"`
	OutOfControl []string       `json:"out_of_control,omitempty"`
	PChart       []PChartPoint  `json:"pchart,omitempty"`
}

// StoreStatus represents the status of the record store.
type StoreStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	SchemaVersion uint      `json:"schema_version"`
	TotalRecords  int       `json:"total_records"`
	FirstDate     time.Time `json:"first_date"`
	LastDate      time.Time `json:"last_date"`
	LastImport    time.Time `json:"last_import"`
	Airlines      []string  `json:"airlines"`
}
