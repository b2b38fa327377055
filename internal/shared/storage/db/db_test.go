package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                   { return nil }
func (nopStmt) NumInput() int                                  { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return nopResult{}, nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nopRows{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 0, nil }
func (nopResult) RowsAffected() (int64, error) { return 0, nil }

type nopRows struct{}

func (nopRows) Columns() []string              { return []string{} }
func (nopRows) Close() error                   { return nil }
func (nopRows) Next(dest []driver.Value) error { return driver.ErrBadConn }

var registerTestDriverOnce sync.Once

func ensureTestDriverRegistered() {
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
}

func withTestDriver(t *testing.T) func() {
	t.Helper()
	ensureTestDriverRegistered()
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	return func() {
		openDB = prev
	}
}

func resetSingleton(t *testing.T) {
	t.Helper()
	singletonMu.Lock()
	singletonDB = nil
	singletonInFly = false
	singletonMu.Unlock()
	t.Cleanup(func() {
		singletonMu.Lock()
		singletonDB = nil
		singletonMu.Unlock()
	})
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultOptions(RuntimeServer)); !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}

func TestDefaultOptionsPerRuntime(t *testing.T) {
	tests := []struct {
		rt      Runtime
		maxOpen int
	}{
		{RuntimeLambda, 2},
		{RuntimeServer, 10},
		{RuntimeWorker, 6},
		{RuntimeMigrate, 1},
		{Runtime("unknown"), 10},
	}
	for _, tt := range tests {
		opts := DefaultOptions(tt.rt)
		if opts.MaxOpenConns != tt.maxOpen {
			t.Fatalf("%s: expected MaxOpenConns=%d, got %d", tt.rt, tt.maxOpen, opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > opts.MaxOpenConns {
			t.Fatalf("%s: idle pool larger than open pool", tt.rt)
		}
	}
}

func TestDetectRuntime(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	if IsLambdaRuntime() || DetectRuntime(RuntimeWorker) != RuntimeWorker {
		t.Fatalf("expected fallback runtime outside lambda")
	}
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "resume-parser-api")
	if !IsLambdaRuntime() || DetectRuntime(RuntimeWorker) != RuntimeLambda {
		t.Fatalf("expected lambda runtime inside lambda")
	}
}

func TestOpenSharesPoolOnlyInLambda(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()
	resetSingleton(t)

	l1, err := Open(context.Background(), "ignored", RuntimeLambda)
	if err != nil {
		t.Fatalf("Open lambda: %v", err)
	}
	l2, err := Open(context.Background(), "ignored", RuntimeLambda)
	if err != nil {
		t.Fatalf("Open lambda again: %v", err)
	}
	if l1 != l2 {
		t.Fatalf("expected lambda pools to be shared")
	}

	w, err := Open(context.Background(), "ignored", RuntimeWorker)
	if err != nil {
		t.Fatalf("Open worker: %v", err)
	}
	defer w.Close()
	if w == l1 {
		t.Fatalf("expected worker to get its own pool")
	}
	if got := w.Stats().MaxOpenConnections; got != 6 {
		t.Fatalf("expected worker MaxOpenConnections=6, got %d", got)
	}
}

func TestGetSingletonReturnsSamePointer(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	resetSingleton(t)

	db1, err := GetSingleton(context.Background(), "ignored", DefaultOptions(RuntimeLambda))
	if err != nil {
		t.Fatalf("GetSingleton first: %v", err)
	}
	db2, err := GetSingleton(context.Background(), "ignored", DefaultOptions(RuntimeLambda))
	if err != nil {
		t.Fatalf("GetSingleton second: %v", err)
	}
	if db1 != db2 {
		t.Fatalf("expected singleton pointers to match")
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultOptions(RuntimeServer))
	db, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	stats := db.Stats()
	if stats.MaxOpenConnections != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", stats.MaxOpenConnections)
	}
	if opts.MaxIdleConns != 3 {
		t.Fatalf("expected MaxIdleConns=3, got %d", opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime != 20*time.Minute {
		t.Fatalf("expected ConnMaxLifetime=20m, got %s", opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", opts.ConnMaxIdleTime)
	}
	if opts.PingTimeout != time.Second {
		t.Fatalf("expected PingTimeout=1s, got %s", opts.PingTimeout)
	}
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	var calls int32
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, driver.ErrBadConn
		}
		ensureTestDriverRegistered()
		return sql.Open("dbtest", dsn)
	}
	defer func() {
		openDB = prev
	}()
	ensureTestDriverRegistered()

	resetSingleton(t)

	_, err := GetSingleton(context.Background(), "ignored", DefaultOptions(RuntimeLambda))
	if err == nil {
		t.Fatalf("expected first call to fail")
	}
	db2, err := GetSingleton(context.Background(), "ignored", DefaultOptions(RuntimeLambda))
	if err != nil {
		t.Fatalf("expected second call to succeed: %v", err)
	}
	if db2 == nil {
		t.Fatalf("expected db after retry")
	}
}
