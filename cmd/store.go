package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/airqc/core"
	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/iocache"
	"github.com/huangsam/airqc/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig loads the minimal configuration needed for store operations.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok || backend == schema.NoneBackend {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetup opens the record store without the full shared setup.
func storeSetup() error {
	if err := storeConfig(); err != nil {
		return err
	}
	if err := iocache.InitStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeCmd focused on record store management.
//
// Note: Most store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by the reporting commands. Only import needs a record source.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the persistent record store",
	Long: `Manage the SQL store that keeps operational records between runs.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  import  - Load records from the configured source into the store
  status  - Show record counts, covered days and schema version
  clear   - Remove all stored records
  migrate - Move the store schema to a specific version
  export  - Write stored records to Parquet or CSV

Examples:
  # Keep a year of simulated data
  airqc store import --sim-start 2025-01-01 --sim-end 2025-12-31

  # Report from the store instead of re-simulating
  airqc report --source store`,
}

// storeImportCmd imports records.
var storeImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import records from the configured source",
	Long: `Read records from --source (simulated, csv or parquet) and write them to the store.

Rows sharing a day and airline with an existing row replace it.

Examples:
  # Import a CSV export
  airqc store import --source csv --source-path records.csv

  # Import into PostgreSQL (set connection string via env variable)
  AIRQC_STORE_BACKEND=postgresql AIRQC_STORE_DB_CONNECT="host=... dbname=..." airqc store import`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		return storeSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreImport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to import records", err)
		}
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record store statistics and connection details",
	Long: `Show the backend, connection state, schema version, record count,
covered days, airlines and the time of the last import.

Examples:
  # Check store status
  airqc store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetRecordStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored records",
	Long: `Delete every stored record. The schema and its version are kept.

Examples:
  # Clear the default SQLite store
  airqc store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := storeManager.GetRecordStore().Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear record store", err)
		}
		fmt.Println("Record store cleared successfully.")
	},
}

// storeMigrateCmd migrates the store schema.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the record store schema",
	Long: `Apply or roll back schema migrations.

Opening the store for any other command migrates to the latest version,
so this is mostly useful for rollbacks.

Examples:
  # Migrate to the latest version
  airqc store migrate

  # Roll back everything
  airqc store migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return storeConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateRecords(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate record store", err)
		}
	},
}

// storeExportCmd exports stored records.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to Parquet or CSV",
	Long: `Write stored records in the --start/--end range to --output-file.
A .csv suffix writes CSV; anything else is written as Parquet.

Examples:
  # Everything as Parquet
  airqc store export --output-file records.parquet

  # Last month as CSV
  airqc store export --start "30 days ago" --output-file recent.csv`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		now := time.Now()
		start, err := contract.ParseDateBound(viper.GetString("start"), now)
		if err != nil {
			contract.LogFatal("Invalid start", err)
		}
		end, err := contract.ParseDateBound(viper.GetString("end"), now)
		if err != nil {
			contract.LogFatal("Invalid end", err)
		}
		if err := iocache.ExecuteRecordExport(rootCtx, storeManager.GetRecordStore(), viper.GetString("output-file"), start, end); err != nil {
			contract.LogFatal("Failed to export records", err)
		}
	},
}
