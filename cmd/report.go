package cmd

import (
	"github.com/huangsam/airqc/core"
	"github.com/huangsam/airqc/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd computes every dashboard section.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the airport quality dashboard.",
	Long: `Compute the full quality dashboard over the filtered records.

Sections:
- Turnaround time as an X-bar chart with 3-sigma control limits
- Bag SLA as a CUSUM of daily means
- Security queue time smoothed with an EWMA
- Gate utilisation as a record count per gate
- Baggage scan failures as a P-chart with per-day limits
- Passenger flow as a daily total with a moving average
- Delay causes ranked as a Pareto table

Examples:
  # Dashboard for simulated data
  airqc report

  # One airline, a few gates, first quarter
  airqc report --airline Saudia --gates G1,G2,G3 --start 2025-01-01 --end 2025-03-31

  # Smoother EWMA and a weekly moving average
  airqc report --alpha 0.1 --window 7

  # Report on records imported into the store
  airqc report --source store --store-backend sqlite

  # Export every section for spreadsheets
  airqc report --output csv --output-file dashboard.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}

// seriesCmd computes a single SPC transform.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Compute one SPC metric over an aggregated field.",
	Long: `Aggregate a record field by a group key and apply a single SPC transform.

Sequential metrics (cusum, ewma, ma) require --group-by date. The pchart metric
uses scan failures over total bags regardless of --field and --reducer.

Examples:
  # EWMA of the daily mean queue time
  airqc series --metric ewma --field queue_minutes

  # Control limits on mean turnaround per gate
  airqc series --metric limits --field turnaround_minutes --group-by gate

  # Scan-failure P-chart per airline
  airqc series --metric pchart --group-by airline

  # Raw daily passenger totals as JSON
  airqc series --metric raw --field passenger_flow --reducer sum --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run series", err)
		}
	},
}

// paretoCmd ranks a categorical field.
var paretoCmd = &cobra.Command{
	Use:   "pareto",
	Short: "Rank a categorical field by frequency.",
	Long: `Count records per category and rank them with percentages and cumulative percentages.

Examples:
  # Which delay causes dominate?
  airqc pareto

  # Busiest gates for one airline
  airqc pareto --category gate --airline Flynas`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePareto(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run pareto", err)
		}
	},
}

// simulateCmd writes simulated records.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate seeded operational records.",
	Long: `Generate one record per day and airline from a seeded random stream.

Text and csv output both use the CSV layout read by --source csv.

Examples:
  # A year of records as CSV
  airqc simulate --sim-start 2025-01-01 --sim-end 2025-12-31 --output-file records.csv

  # Parquet for columnar tools
  airqc simulate --output parquet --output-file records.parquet --seed 7`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSimulate(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot simulate records", err)
		}
	},
}
