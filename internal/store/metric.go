package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/ngrok/sqlmw"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sqlVerbRegex = regexp.MustCompile(`^(\w)+`)
	pgOpLatency  *prometheus.HistogramVec
	pgOpTotal    *prometheus.CounterVec
)

func init() {
	pgOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "pg_op_duration_milliseconds",
		Help:      "Time spent on a postgres operation",
		Subsystem: "article_engine",
		Buckets:   []float64{100, 300, 500, 1000, 5000},
	},
		[]string{"op", "method"},
	)
	pgOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "pg_op_total",
		Help:      "Number of postgres operations",
		Subsystem: "article_engine",
	},
		[]string{"op"},
	)

	prometheus.MustRegister(pgOpLatency)
	prometheus.MustRegister(pgOpTotal)
}

// metricInterceptor observes every database operation at the driver level, so
// the jsonb reads and column-selective writes of the job store show up in the
// metrics without instrumenting each store method.
type metricInterceptor struct {
	sqlmw.NullInterceptor
}

func (mi *metricInterceptor) ConnBeginTx(ctx context.Context, conn driver.ConnBeginTx, opts driver.TxOptions) (context.Context, driver.Tx, error) {
	start := time.Now()
	defer mi.measure("conn-begin-tx", "conn-begin-tx", start)

	tx, err := conn.BeginTx(ctx, opts)
	return ctx, tx, err
}

func (mi *metricInterceptor) ConnPrepareContext(ctx context.Context, conn driver.ConnPrepareContext, query string) (context.Context, driver.Stmt, error) {
	start := time.Now()
	defer mi.measure("conn-prepare-context", "conn-prepare-context", start)

	stmt, err := conn.PrepareContext(ctx, query)
	return ctx, stmt, err
}

func (mi *metricInterceptor) ConnPing(ctx context.Context, conn driver.Pinger) error {
	start := time.Now()
	defer mi.measure("conn-ping", "conn-ping", start)

	return conn.Ping(ctx)
}

func (mi *metricInterceptor) ConnExecContext(ctx context.Context, conn driver.ExecerContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	defer mi.measure("conn-exec-context", sqlVerb(query, "conn-exec-context"), start)

	return conn.ExecContext(ctx, query, args)
}

func (mi *metricInterceptor) ConnQueryContext(ctx context.Context, conn driver.QueryerContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	defer mi.measure("conn-query-context", sqlVerb(query, "conn-query-context"), start)

	rows, err := conn.QueryContext(ctx, query, args)
	return ctx, rows, err
}

func (mi *metricInterceptor) RowsNext(ctx context.Context, conn driver.Rows, dest []driver.Value) error {
	start := time.Now()
	defer mi.measure("rows-next", "rows-next", start)
	return conn.Next(dest)
}

func (mi *metricInterceptor) StmtExecContext(ctx context.Context, conn driver.StmtExecContext, _ string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	defer mi.measure("stmt-exec-context", "stmt-exec-context", start)
	return conn.ExecContext(ctx, args)
}

func (mi *metricInterceptor) StmtQueryContext(ctx context.Context, conn driver.StmtQueryContext, _ string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	defer mi.measure("stmt-query-context", "stmt-query-context", start)

	rows, err := conn.QueryContext(ctx, args)
	return ctx, rows, err
}

func (mi *metricInterceptor) TxCommit(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	defer mi.measure("tx-commit", "tx-commit", start)
	return conn.Commit()
}

func (mi *metricInterceptor) TxRollback(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	defer mi.measure("tx-rollback", "tx-rollback", start)
	return conn.Rollback()
}

// sqlVerb labels the measurement with the statement's leading keyword
// (select, insert, update) when one is present.
func sqlVerb(query, fallback string) string {
	if match := sqlVerbRegex.FindString(query); match != "" {
		return strings.ToLower(match)
	}
	return fallback
}

func (mi *metricInterceptor) measure(op, method string, start time.Time) {
	pgOpTotal.With(prometheus.Labels{"op": op}).Inc()

	pgOpLatency.With(prometheus.Labels{
		"op":     op,
		"method": method,
	}).Observe(float64(time.Since(start).Milliseconds()))
}
