package schema

// Custom string types for type safety.
type (
	// GroupKey represents the field records are grouped by during aggregation.
	GroupKey string

	// ValueField represents the numeric record field being aggregated.
	ValueField string

	// Reducer represents the per-group reduction applied during aggregation.
	Reducer string

	// MetricKind represents a single SPC transform.
	MetricKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// SourceKind represents where operational records are loaded from.
	SourceKind string

	// DatabaseBackend represents the database backend for the record store.
	DatabaseBackend string
)

// Group keys supported by the aggregation stage.
const (
	GroupByDate       GroupKey = "date" // default
	GroupByGate       GroupKey = "gate"
	GroupByDelayCause GroupKey = "delay_cause"
	GroupByAirline    GroupKey = "airline"
)

// Numeric record fields.
const (
	FieldTurnaround    ValueField = "turnaround_minutes"
	FieldBagSLA        ValueField = "bag_sla_minutes"
	FieldQueue         ValueField = "queue_minutes"
	FieldScanFailures  ValueField = "scan_failures"
	FieldTotalBags     ValueField = "total_bags"
	FieldPassengerFlow ValueField = "passenger_flow"
)

// Reducers supported by the aggregation stage.
const (
	ReduceSum   Reducer = "sum"
	ReduceMean  Reducer = "mean" // default
	ReduceCount Reducer = "count"
)

// All SPC transforms exposed by the series command.
const (
	MetricLimits  MetricKind = "limits"
	MetricCUSUM   MetricKind = "cusum"
	MetricEWMA    MetricKind = "ewma" // default
	MetricPChart  MetricKind = "pchart"
	MetricMovAvg  MetricKind = "ma"
	MetricRawData MetricKind = "raw"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All record sources supported.
const (
	SimulatedSource SourceKind = "simulated" // default
	CSVSource       SourceKind = "csv"
	ParquetSource   SourceKind = "parquet"
	StoreSource     SourceKind = "store"
)

// All record store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllAirlines lists the airline enumeration in display order.
var AllAirlines = []string{"Saudia", "Flynas", "Flyadeal", "Emirates"}

// AllGates lists the gate enumeration in display order.
var AllGates = []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7", "G8", "G9", "G10"}

// AllDelayCauses lists the delay cause enumeration in display order.
var AllDelayCauses = []string{"Technical", "Crew", "Weather", "Security", "Catering"}

// AirlineAll selects every airline in a filter.
const AirlineAll = "all"

// NominalBagBatch is the nominal number of bags per record.
const NominalBagBatch = 1000

// ValidGroupKeys lists all valid group keys.
var ValidGroupKeys = map[GroupKey]struct{}{
	GroupByDate:       {},
	GroupByGate:       {},
	GroupByDelayCause: {},
	GroupByAirline:    {},
}

// ValidValueFields lists all valid numeric fields.
var ValidValueFields = map[ValueField]struct{}{
	FieldTurnaround:    {},
	FieldBagSLA:        {},
	FieldQueue:         {},
	FieldScanFailures:  {},
	FieldTotalBags:     {},
	FieldPassengerFlow: {},
}

// ValidReducers lists all valid reducers.
var ValidReducers = map[Reducer]struct{}{
	ReduceSum:   {},
	ReduceMean:  {},
	ReduceCount: {},
}

// ValidMetricKinds lists all valid SPC transforms.
var ValidMetricKinds = map[MetricKind]struct{}{
	MetricLimits:  {},
	MetricCUSUM:   {},
	MetricEWMA:    {},
	MetricPChart:  {},
	MetricMovAvg:  {},
	MetricRawData: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSourceKinds lists all valid record sources.
var ValidSourceKinds = map[SourceKind]struct{}{
	SimulatedSource: {},
	CSVSource:       {},
	ParquetSource:   {},
	StoreSource:     {},
}

// ValidDatabaseBackends lists all valid record store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
