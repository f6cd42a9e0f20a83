// Package cmd defines the command-line interface for airqc.
package cmd

import (
	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(paretoCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeImportCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("airline", schema.AirlineAll, "Airline to include, or all")
	rootCmd.PersistentFlags().String("gates", "all", "Comma-separated gates to include, or all")
	rootCmd.PersistentFlags().String("start", "", "Start day in YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().String("end", "", "End day in YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().Float64("alpha", contract.DefaultAlpha, "EWMA smoothing factor in (0, 1]")
	rootCmd.PersistentFlags().Int("window", contract.DefaultWindow, "Moving average window in points")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("source", string(schema.SimulatedSource), "Record source: simulated or csv or parquet or store")
	rootCmd.PersistentFlags().String("source-path", "", "Path to the CSV or Parquet records file")
	rootCmd.PersistentFlags().Int64("seed", contract.DefaultSeed, "Seed for simulated records")
	rootCmd.PersistentFlags().String("sim-start", contract.DefaultSimStart, "First simulated day")
	rootCmd.PersistentFlags().String("sim-end", contract.DefaultSimEnd, "Last simulated day")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql, or a SQLite file path")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in section headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of seriesCmd to Viper
	seriesCmd.Flags().String("metric", string(schema.MetricEWMA), "SPC transform: limits or cusum or ewma or pchart or ma or raw")
	seriesCmd.Flags().String("group-by", string(schema.GroupByDate), "Group key: date or gate or delay_cause or airline")
	seriesCmd.Flags().String("field", string(schema.FieldQueue), "Numeric record field to aggregate")
	seriesCmd.Flags().String("reducer", string(schema.ReduceMean), "Per-group reduction: sum or mean or count")
	if err := viper.BindPFlags(seriesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding series flags", err)
	}

	// Bind all flags of paretoCmd to Viper
	paretoCmd.Flags().String("category", string(schema.GroupByDelayCause), "Field to rank: gate or delay_cause or airline")
	if err := viper.BindPFlags(paretoCmd.Flags()); err != nil {
		contract.LogFatal("Error binding pareto flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
