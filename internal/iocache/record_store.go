package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// recordsTable holds one row per (record_date, airline).
const recordsTable = "airqc_records"

// recordColumns lists the stored columns in scan order.
var recordColumns = []string{
	"record_date", "airline", "gate",
	"turnaround_minutes", "bag_sla_minutes", "queue_minutes",
	"scan_failures", "total_bags", "passenger_flow", "delay_cause",
}

// RecordStoreImpl implements the RecordStore interface on top of database/sql.
type RecordStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.RecordStore = &RecordStoreImpl{} // Compile-time check

// driverFor returns the database/sql driver name and DSN for a backend.
func driverFor(backend schema.DatabaseBackend, connStr string) (string, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetStoreDBFilePath()
		}
		return "sqlite", connStr, nil
	case schema.MySQLBackend:
		return "mysql", connStr, nil
	case schema.PostgreSQLBackend:
		return "pgx", connStr, nil
	default:
		return "", "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// NewRecordStore migrates the schema to the latest version and opens a store with the specified backend.
// An empty connStr selects the default SQLite file for the sqlite backend.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (contract.RecordStore, error) {
	if backend == schema.NoneBackend {
		return nil, fmt.Errorf("record store is disabled for backend %s", backend)
	}
	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return nil, err
	}

	if _, _, err := runMigrations(backend, connStr, -1); err != nil {
		return nil, fmt.Errorf("failed to migrate record store: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... user=... dbname=...", err)
		default:
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dsn, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	return &RecordStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// quoteTableName quotes a table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// placeholder returns the n-th (1-based) bind parameter for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns a comma separated list of count parameters starting at start.
func placeholders(backend schema.DatabaseBackend, start, count int) string {
	parts := make([]string, count)
	for i := range count {
		parts[i] = placeholder(backend, start+i)
	}
	return strings.Join(parts, ", ")
}

// Import replaces stored rows sharing a (date, airline) key with the given records.
// Duplicate keys in the batch resolve to the last occurrence.
func (rs *RecordStoreImpl) Import(ctx context.Context, records []schema.OperationalRecord) (int, error) {
	type key struct{ date, airline string }
	latest := make(map[key]int, len(records))
	var order []key
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
		k := key{schema.FormatDay(r.Date), r.Airline}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = i
	}
	if len(order) == 0 {
		return 0, nil
	}

	table := quoteTableName(recordsTable, rs.backend)
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE record_date = %s AND airline = %s",
		table, placeholder(rs.backend, 1), placeholder(rs.backend, 2))
	columns := append(slices.Clone(recordColumns), "imported_at")
	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders(rs.backend, 1, len(columns)))

	tx, err := rs.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	importedAt := rs.now().UTC().Format(time.RFC3339)
	for _, k := range order {
		r := records[latest[k]]
		if _, err := tx.ExecContext(ctx, deleteQuery, k.date, k.airline); err != nil {
			return 0, fmt.Errorf("failed to replace %s/%s: %w", k.date, k.airline, err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery,
			k.date, r.Airline, r.Gate,
			r.TurnaroundMinutes, r.BagSLAMinutes, r.QueueMinutes,
			r.ScanFailures, r.TotalBags, r.PassengerFlow, r.DelayCause,
			importedAt,
		); err != nil {
			return 0, fmt.Errorf("failed to insert %s/%s: %w", k.date, k.airline, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(order), nil
}

// LoadRecords returns stored records in the inclusive day range, ordered by date then airline.
func (rs *RecordStoreImpl) LoadRecords(ctx context.Context, start, end time.Time) ([]schema.OperationalRecord, error) {
	var (
		conds []string
		args  []any
	)
	if !start.IsZero() {
		args = append(args, schema.FormatDay(start))
		conds = append(conds, "record_date >= "+placeholder(rs.backend, len(args)))
	}
	if !end.IsZero() {
		args = append(args, schema.FormatDay(end))
		conds = append(conds, "record_date <= "+placeholder(rs.backend, len(args)))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(recordColumns, ", "), quoteTableName(recordsTable, rs.backend))
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := rs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.OperationalRecord
	for rows.Next() {
		var (
			r    schema.OperationalRecord
			date string
		)
		if err := rows.Scan(&date, &r.Airline, &r.Gate,
			&r.TurnaroundMinutes, &r.BagSLAMinutes, &r.QueueMinutes,
			&r.ScanFailures, &r.TotalBags, &r.PassengerFlow, &r.DelayCause); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if r.Date, err = schema.ParseDay(date); err != nil {
			return nil, fmt.Errorf("stored record has bad date %q: %w", date, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("stored record %s/%s: %w", date, r.Airline, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	// Collation differs across backends, so order in Go.
	slices.SortStableFunc(records, func(a, b schema.OperationalRecord) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return schema.CategoryRank(schema.GroupByAirline, a.Airline) - schema.CategoryRank(schema.GroupByAirline, b.Airline)
	})
	return records, nil
}

// GetStatus returns status information about the record store.
func (rs *RecordStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{Backend: string(rs.backend)}
	if err := rs.db.PingContext(ctx); err != nil {
		return status, nil
	}
	status.Connected = true

	var version sql.NullInt64
	versionQuery := fmt.Sprintf("SELECT version FROM %s", quoteTableName(migrationsTable, rs.backend))
	if err := rs.db.QueryRowContext(ctx, versionQuery).Scan(&version); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return status, fmt.Errorf("failed to read schema version: %w", err)
	}
	if version.Valid && version.Int64 > 0 {
		status.SchemaVersion = uint(version.Int64)
	}

	table := quoteTableName(recordsTable, rs.backend)
	var first, last, imported sql.NullString
	summary := fmt.Sprintf("SELECT COUNT(*), MIN(record_date), MAX(record_date), MAX(imported_at) FROM %s", table)
	if err := rs.db.QueryRowContext(ctx, summary).Scan(&status.TotalRecords, &first, &last, &imported); err != nil {
		return status, fmt.Errorf("failed to summarize records: %w", err)
	}
	if first.Valid {
		status.FirstDate, _ = schema.ParseDay(first.String)
	}
	if last.Valid {
		status.LastDate, _ = schema.ParseDay(last.String)
	}
	if imported.Valid {
		status.LastImport, _ = time.Parse(time.RFC3339, imported.String)
	}

	rows, err := rs.db.QueryContext(ctx, fmt.Sprintf("SELECT DISTINCT airline FROM %s", table))
	if err != nil {
		return status, fmt.Errorf("failed to list airlines: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var airline string
		if err := rows.Scan(&airline); err != nil {
			return status, fmt.Errorf("failed to scan airline: %w", err)
		}
		status.Airlines = append(status.Airlines, airline)
	}
	if err := rows.Err(); err != nil {
		return status, err
	}
	slices.SortFunc(status.Airlines, func(a, b string) int {
		return schema.CategoryRank(schema.GroupByAirline, a) - schema.CategoryRank(schema.GroupByAirline, b)
	})
	return status, nil
}

// Clear removes every stored record. The schema is left in place.
func (rs *RecordStoreImpl) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", quoteTableName(recordsTable, rs.backend))
	if _, err := rs.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (rs *RecordStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
