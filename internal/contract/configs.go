package contract

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/airqc/schema"
)

// Default values for configuration.
const (
	DefaultAlpha     = 0.3
	DefaultWindow    = 3
	DefaultPrecision = 2
	MaxPrecision     = 4
	DefaultSeed      = 42
	DefaultSimStart  = "2025-01-01"
	DefaultSimEnd    = "2025-12-31"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	Airline   string
	Gates     []string
	StartTime time.Time // zero means omitted
	EndTime   time.Time // zero means omitted

	Alpha  float64
	Window int

	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string

	Source     schema.SourceKind
	SourcePath string
	Seed       int64
	SimStart   time.Time
	SimEnd     time.Time

	Metric   schema.MetricKind
	GroupBy  schema.GroupKey
	Field    schema.ValueField
	Reducer  schema.Reducer
	Category schema.GroupKey

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Airline        string  `mapstructure:"airline"`
	Gates          string  `mapstructure:"gates"`
	Start          string  `mapstructure:"start"`
	End            string  `mapstructure:"end"`
	Alpha          float64 `mapstructure:"alpha"`
	Window         int     `mapstructure:"window"`
	Workers        int     `mapstructure:"workers"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Source         string  `mapstructure:"source"`
	SourcePath     string  `mapstructure:"source-path"`
	Seed           int64   `mapstructure:"seed"`
	SimStart       string  `mapstructure:"sim-start"`
	SimEnd         string  `mapstructure:"sim-end"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`
	Emoji          string  `mapstructure:"emoji"`
	Color          string  `mapstructure:"color"`

	// --- Fields from seriesCmd.Flags() ---
	Metric  string `mapstructure:"metric"`
	GroupBy string `mapstructure:"group-by"`
	Field   string `mapstructure:"field"`
	Reducer string `mapstructure:"reducer"`

	// --- Fields from paretoCmd.Flags() ---
	Category string `mapstructure:"category"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Gates != nil {
		clone.Gates = slices.Clone(c.Gates)
	}
	return &clone
}

// Filter returns the record filter described by the config.
func (c *Config) Filter() schema.Filter {
	return schema.Filter{
		Airline: c.Airline,
		Gates:   slices.Clone(c.Gates),
		Start:   c.StartTime,
		End:     c.EndTime,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFilter(cfg, input, now); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processMetricSelectors(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the record store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}
	if cfg.Source == schema.StoreSource && cfg.StoreBackend == schema.NoneBackend {
		return fmt.Errorf("source '%s' needs a store backend other than none", schema.StoreSource)
	}
	return nil
}

// validateSimpleInputs processes and validates all numeric and formatting fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Alpha <= 0 || input.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be in (0, 1] (received %v)", schema.ErrInvalidParameter, input.Alpha)
	}
	cfg.Alpha = input.Alpha

	if input.Window <= 0 {
		return fmt.Errorf("%w: window must be greater than 0 (received %d)", schema.ErrInvalidParameter, input.Window)
	}
	cfg.Window = input.Window

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	return nil
}

// processFilter resolves the airline, gate set and date range.
func processFilter(cfg *Config, input *ConfigRawInput, now time.Time) error {
	airline, err := ResolveAirline(input.Airline)
	if err != nil {
		return err
	}
	cfg.Airline = airline

	gates, err := ParseGates(input.Gates)
	if err != nil {
		return err
	}
	cfg.Gates = gates

	cfg.StartTime, err = ParseDateBound(input.Start, now)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	cfg.EndTime, err = ParseDateBound(input.End, now)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("%w: start (%s) cannot be after end (%s)", schema.ErrInvalidRange,
			schema.FormatDay(cfg.StartTime), schema.FormatDay(cfg.EndTime))
	}
	return nil
}

// processSource resolves where records come from.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = schema.SourceKind(strings.ToLower(input.Source))
	if _, ok := schema.ValidSourceKinds[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be simulated, csv, parquet, store", input.Source)
	}
	cfg.SourcePath = strings.TrimSpace(input.SourcePath)
	if (cfg.Source == schema.CSVSource || cfg.Source == schema.ParquetSource) && cfg.SourcePath == "" {
		return fmt.Errorf("--source-path is required for source '%s'", cfg.Source)
	}

	cfg.Seed = input.Seed
	var err error
	if cfg.SimStart, err = schema.ParseDay(input.SimStart); err != nil {
		return fmt.Errorf("invalid sim-start %q: %w", input.SimStart, err)
	}
	if cfg.SimEnd, err = schema.ParseDay(input.SimEnd); err != nil {
		return fmt.Errorf("invalid sim-end %q: %w", input.SimEnd, err)
	}
	if cfg.SimStart.After(cfg.SimEnd) {
		return fmt.Errorf("%w: sim-start (%s) cannot be after sim-end (%s)", schema.ErrInvalidRange,
			input.SimStart, input.SimEnd)
	}
	return nil
}

// processMetricSelectors validates the series and pareto selectors.
// Empty selectors fall back to the defaults so that commands not using them still validate.
func processMetricSelectors(cfg *Config, input *ConfigRawInput) error {
	cfg.Metric = schema.MetricKind(strings.ToLower(orDefault(input.Metric, string(schema.MetricEWMA))))
	if _, ok := schema.ValidMetricKinds[cfg.Metric]; !ok {
		return fmt.Errorf("%w: metric '%s'. must be limits, cusum, ewma, pchart, ma, raw", schema.ErrInvalidParameter, input.Metric)
	}
	cfg.GroupBy = schema.GroupKey(strings.ToLower(orDefault(input.GroupBy, string(schema.GroupByDate))))
	if _, ok := schema.ValidGroupKeys[cfg.GroupBy]; !ok {
		return fmt.Errorf("%w: group-by '%s'. must be date, gate, delay_cause, airline", schema.ErrInvalidParameter, input.GroupBy)
	}
	cfg.Field = schema.ValueField(strings.ToLower(orDefault(input.Field, string(schema.FieldQueue))))
	if _, ok := schema.ValidValueFields[cfg.Field]; !ok {
		return fmt.Errorf("%w: field '%s'", schema.ErrInvalidParameter, input.Field)
	}
	cfg.Reducer = schema.Reducer(strings.ToLower(orDefault(input.Reducer, string(schema.ReduceMean))))
	if _, ok := schema.ValidReducers[cfg.Reducer]; !ok {
		return fmt.Errorf("%w: reducer '%s'. must be sum, mean, count", schema.ErrInvalidParameter, input.Reducer)
	}
	cfg.Category = schema.GroupKey(strings.ToLower(orDefault(input.Category, string(schema.GroupByDelayCause))))
	if _, ok := schema.ValidGroupKeys[cfg.Category]; !ok || cfg.Category == schema.GroupByDate {
		return fmt.Errorf("%w: category '%s'. must be gate, delay_cause, airline", schema.ErrInvalidParameter, input.Category)
	}
	return nil
}

// RevalidateFilter applies filter overrides to an already validated config.
// Empty overrides keep the current value.
func RevalidateFilter(cfg *Config, airline, gates, start, end string) error {
	input := &ConfigRawInput{Airline: airline, Gates: gates, Start: start, End: end}
	if airline == "" {
		input.Airline = cfg.Airline
	}
	if gates == "" {
		input.Gates = strings.Join(cfg.Gates, ",")
	}
	if start == "" && !cfg.StartTime.IsZero() {
		input.Start = schema.FormatDay(cfg.StartTime)
	}
	if end == "" && !cfg.EndTime.IsZero() {
		input.End = schema.FormatDay(cfg.EndTime)
	}
	return processFilter(cfg, input, time.Now())
}

// RevalidateSelectors applies series and pareto selector overrides to an already validated config.
// Empty overrides keep the current value.
func RevalidateSelectors(cfg *Config, metric, groupBy, field, reducer, category string) error {
	input := &ConfigRawInput{
		Metric:   orDefault(metric, string(cfg.Metric)),
		GroupBy:  orDefault(groupBy, string(cfg.GroupBy)),
		Field:    orDefault(field, string(cfg.Field)),
		Reducer:  orDefault(reducer, string(cfg.Reducer)),
		Category: orDefault(category, string(cfg.Category)),
	}
	return processMetricSelectors(cfg, input)
}

// ResolveAirline maps a user-provided airline to its canonical spelling.
// "all" is accepted in any case.
func ResolveAirline(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || schema.IsAllAirlines(s) {
		return schema.AirlineAll, nil
	}
	for _, a := range schema.AllAirlines {
		if strings.EqualFold(a, s) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: airline %q. must be all or one of %s",
		schema.ErrUnknownCategory, s, strings.Join(schema.AllAirlines, ", "))
}

// ParseGates parses "all" or a comma-separated gate list. An empty string selects no gates.
func ParseGates(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return slices.Clone(schema.AllGates), nil
	}
	gates := make([]string, 0)
	for part := range strings.SplitSeq(s, ",") {
		g := strings.ToUpper(strings.TrimSpace(part))
		if g == "" {
			continue
		}
		if !schema.IsKnownGate(g) {
			return nil, fmt.Errorf("%w: gate %q", schema.ErrUnknownCategory, g)
		}
		if !slices.Contains(gates, g) {
			gates = append(gates, g)
		}
	}
	return gates, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
