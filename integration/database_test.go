//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/airqc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAirqcWithMySQL tests the airqc CLI with a MySQL record store.
func TestAirqcWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "airqc",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/airqc", host, port.Port())
	runStoreScenario(t, "mysql", connStr)
}

// TestAirqcWithPostgres tests the airqc CLI with a PostgreSQL record store.
func TestAirqcWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runStoreScenario(t, "postgresql", connStr)
}

// runStoreScenario drives every store subcommand against one backend.
func runStoreScenario(t *testing.T, backend, connStr string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AIRQC_STORE_BACKEND", backend)
	t.Setenv("AIRQC_STORE_DB_CONNECT", connStr)

	_, err := runAirqc(t, "store", "migrate")
	require.NoError(t, err)

	_, err = runAirqc(t, "store", "import", "--sim-start", "2025-01-01", "--sim-end", "2025-01-15")
	require.NoError(t, err)

	// Re-importing an overlapping span replaces rows instead of duplicating them.
	_, err = runAirqc(t, "store", "import", "--sim-start", "2025-01-10", "--sim-end", "2025-01-20", "--seed", "9")
	require.NoError(t, err)

	out, err := runAirqc(t, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, fmt.Sprintf("Total Records: %d", 20*len(schema.AllAirlines)))
	assert.Contains(t, out, "Last Day: 2025-01-20")

	out, err = runAirqc(t, "report", "--source", "store", "--start", "2025-01-05", "--end", "2025-01-14", "--output", "json")
	require.NoError(t, err)
	var report schema.ReportResult
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 10*len(schema.AllAirlines), report.RecordCount)

	exportPath := filepath.Join(t.TempDir(), "export.csv")
	_, err = runAirqc(t, "store", "export", "--output-file", exportPath)
	require.NoError(t, err)

	out, err = runAirqc(t, "pareto", "--source", "csv", "--source-path", exportPath, "--output", "json")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.NotEmpty(t, entries)

	_, err = runAirqc(t, "store", "clear")
	require.NoError(t, err)

	// Roll back and forward again.
	_, err = runAirqc(t, "store", "migrate", "--target-version", "0")
	require.NoError(t, err)
	_, err = runAirqc(t, "store", "migrate", "--target-version", "1")
	require.NoError(t, err)
	out, err = runAirqc(t, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema Version: 2")
}
