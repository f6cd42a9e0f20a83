package contract

import (
	"testing"
	"time"

	"github.com/huangsam/airqc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns raw input matching the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Airline:      "all",
		Gates:        "all",
		Alpha:        DefaultAlpha,
		Window:       DefaultWindow,
		Workers:      2,
		Precision:    DefaultPrecision,
		Output:       "text",
		Source:       "simulated",
		Seed:         DefaultSeed,
		SimStart:     DefaultSimStart,
		SimEnd:       DefaultSimEnd,
		StoreBackend: "sqlite",
		Emoji:        "no",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		check   func(*testing.T, *Config)
		wantErr error
		errText string
	}{
		{
			name:   "defaults",
			mutate: func(*ConfigRawInput) {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.AirlineAll, cfg.Airline)
				assert.Equal(t, schema.AllGates, cfg.Gates)
				assert.True(t, cfg.StartTime.IsZero())
				assert.True(t, cfg.EndTime.IsZero())
				assert.Equal(t, 0.3, cfg.Alpha)
				assert.Equal(t, 3, cfg.Window)
				assert.Equal(t, schema.SimulatedSource, cfg.Source)
				assert.Equal(t, schema.MetricEWMA, cfg.Metric)
				assert.Equal(t, schema.GroupByDate, cfg.GroupBy)
				assert.Equal(t, schema.FieldQueue, cfg.Field)
				assert.Equal(t, schema.ReduceMean, cfg.Reducer)
				assert.Equal(t, schema.GroupByDelayCause, cfg.Category)
				assert.True(t, cfg.UseColors)
				assert.False(t, cfg.UseEmojis)
				assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), cfg.SimStart)
			},
		},
		{
			name:   "airline is canonicalised",
			mutate: func(in *ConfigRawInput) { in.Airline = "FLYNAS" },
			check:  func(t *testing.T, cfg *Config) { assert.Equal(t, "Flynas", cfg.Airline) },
		},
		{
			name:   "explicit date range",
			mutate: func(in *ConfigRawInput) { in.Start = "2025-02-01"; in.End = "2025-02-28" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "2025-02-01", schema.FormatDay(cfg.StartTime))
				assert.Equal(t, "2025-02-28", schema.FormatDay(cfg.EndTime))
			},
		},
		{
			name:   "gate list",
			mutate: func(in *ConfigRawInput) { in.Gates = "g1, G3,G3" },
			check:  func(t *testing.T, cfg *Config) { assert.Equal(t, []string{"G1", "G3"}, cfg.Gates) },
		},
		{
			name:   "empty gate list selects nothing",
			mutate: func(in *ConfigRawInput) { in.Gates = "" },
			check:  func(t *testing.T, cfg *Config) { assert.Empty(t, cfg.Gates) },
		},
		{
			name:    "inverted range",
			mutate:  func(in *ConfigRawInput) { in.Start = "2025-03-01"; in.End = "2025-02-01" },
			wantErr: schema.ErrInvalidRange,
		},
		{
			name:    "unknown airline",
			mutate:  func(in *ConfigRawInput) { in.Airline = "Qantas" },
			wantErr: schema.ErrUnknownCategory,
		},
		{
			name:    "unknown gate",
			mutate:  func(in *ConfigRawInput) { in.Gates = "G1,G99" },
			wantErr: schema.ErrUnknownCategory,
		},
		{
			name:    "alpha zero",
			mutate:  func(in *ConfigRawInput) { in.Alpha = 0 },
			wantErr: schema.ErrInvalidParameter,
		},
		{
			name:    "alpha above one",
			mutate:  func(in *ConfigRawInput) { in.Alpha = 1.5 },
			wantErr: schema.ErrInvalidParameter,
		},
		{
			name:    "window zero",
			mutate:  func(in *ConfigRawInput) { in.Window = 0 },
			wantErr: schema.ErrInvalidParameter,
		},
		{
			name:    "pareto by date",
			mutate:  func(in *ConfigRawInput) { in.Category = "date" },
			wantErr: schema.ErrInvalidParameter,
		},
		{
			name:    "unknown metric",
			mutate:  func(in *ConfigRawInput) { in.Metric = "xbar" },
			wantErr: schema.ErrInvalidParameter,
		},
		{
			name:    "workers zero",
			mutate:  func(in *ConfigRawInput) { in.Workers = 0 },
			errText: "workers must be greater than 0",
		},
		{
			name:    "bad output",
			mutate:  func(in *ConfigRawInput) { in.Output = "xml" },
			errText: "invalid output format",
		},
		{
			name:    "parquet needs a file",
			mutate:  func(in *ConfigRawInput) { in.Output = "parquet" },
			errText: "--output-file is required",
		},
		{
			name:    "csv source needs a path",
			mutate:  func(in *ConfigRawInput) { in.Source = "csv" },
			errText: "--source-path is required",
		},
		{
			name:    "store source needs a backend",
			mutate:  func(in *ConfigRawInput) { in.Source = "store"; in.StoreBackend = "none" },
			errText: "needs a store backend",
		},
		{
			name:    "mysql without dsn",
			mutate:  func(in *ConfigRawInput) { in.StoreBackend = "mysql" },
			errText: "store-db-connect is required",
		},
		{
			name:    "bad color flag",
			mutate:  func(in *ConfigRawInput) { in.Color = "maybe" },
			errText: "invalid --color value",
		},
		{
			name:    "simulation span inverted",
			mutate:  func(in *ConfigRawInput) { in.SimStart = "2025-12-31"; in.SimEnd = "2025-01-01" },
			wantErr: schema.ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/airqc"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@localhost/airqc"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=airqc"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}

func TestConfigCloneAndFilter(t *testing.T) {
	cfg := &Config{Airline: "Saudia", Gates: []string{"G1", "G2"}}
	clone := cfg.Clone()
	clone.Gates[0] = "G9"
	assert.Equal(t, "G1", cfg.Gates[0])

	f := cfg.Filter()
	f.Gates[1] = "G8"
	assert.Equal(t, "G2", cfg.Gates[1])
	assert.Equal(t, "Saudia", f.Airline)
}

func TestRevalidateOverrides(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	require.NoError(t, RevalidateFilter(cfg, "", "", "", ""))
	assert.Equal(t, schema.AirlineAll, cfg.Airline)
	assert.Equal(t, schema.AllGates, cfg.Gates)

	require.NoError(t, RevalidateFilter(cfg, "flynas", "g2,G5", "2025-02-01", "2025-02-10"))
	assert.Equal(t, "Flynas", cfg.Airline)
	assert.Equal(t, []string{"G2", "G5"}, cfg.Gates)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), cfg.StartTime)

	// Kept bounds still take part in the range check.
	err := RevalidateFilter(cfg, "", "", "2025-03-01", "")
	assert.ErrorIs(t, err, schema.ErrInvalidRange)

	require.NoError(t, RevalidateSelectors(cfg, "pchart", "gate", "", "", ""))
	assert.Equal(t, schema.MetricPChart, cfg.Metric)
	assert.Equal(t, schema.GroupByGate, cfg.GroupBy)
	assert.Equal(t, schema.FieldQueue, cfg.Field)

	err = RevalidateSelectors(cfg, "", "", "", "", "date")
	assert.ErrorIs(t, err, schema.ErrInvalidParameter)
}
