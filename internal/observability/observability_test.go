package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/store"
	"github.com/geocoder89/workoutseed/internal/store/memory"
)

// counterValue sums a counter family across the label pairs that match want.
func counterValue(t *testing.T, p *Prom, name string, want map[string]string) float64 {
	t.Helper()

	families, err := p.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "pg unique", err: &pgconn.PgError{Code: "23505"}, want: "unique_violation"},
		{name: "pg fk", err: &pgconn.PgError{Code: "23503"}, want: "foreign_key_violation"},
		{name: "pg other", err: &pgconn.PgError{Code: "42P01"}, want: "pg_42P01"},
		{name: "mysql duplicate", err: &mysql.MySQLError{Number: 1062}, want: "unique_violation"},
		{name: "mysql fk", err: &mysql.MySQLError{Number: 1452}, want: "foreign_key_violation"},
		{name: "store duplicate", err: fmt.Errorf("insert: %w", store.ErrDuplicate), want: "unique_violation"},
		{name: "sqlite unique", err: errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), want: "unique_violation"},
		{name: "timeout", err: context.DeadlineExceeded, want: "timeout"},
		{name: "connection", err: errors.New("dial tcp: connection refused"), want: "connection"},
		{name: "unknown", err: errors.New("boom"), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDBErr(tt.err); got != tt.want {
				t.Fatalf("classifyDBErr(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestObserveDB_CountsErrorsByClass(t *testing.T) {
	p := NewProm()

	_ = p.ObserveDB("user.insert", func() error { return nil })
	err := p.ObserveDB("user.insert", func() error { return store.ErrDuplicate })
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("ObserveDB must return the wrapped error, got %v", err)
	}

	got := counterValue(t, p, "workoutseed_db_errors_total", map[string]string{"op": "user.insert", "class": "unique_violation"})
	if got != 1 {
		t.Fatalf("expected 1 unique_violation, got %v", got)
	}
}

func TestInstrumentedStore_ReportsOps(t *testing.T) {
	ctx := context.Background()
	p := NewProm()
	st := store.Instrument(memory.New(), p)

	sess, err := st.Open(ctx)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer sess.Close(ctx)

	if _, err := sess.InsertUser(ctx, &user.User{Email: "a@example.com", Username: "a"}); err != nil {
		t.Fatalf("InsertUser error: %v", err)
	}
	if _, err := sess.InsertUser(ctx, &user.User{Email: "a@example.com", Username: "b"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, _, err := sess.FindOne(ctx, store.Lookup{Kind: store.KindUser, Field: "email", Value: "a@example.com"}); err != nil {
		t.Fatalf("FindOne error: %v", err)
	}

	families, err := p.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	ops := map[string]bool{}
	for _, mf := range families {
		if mf.GetName() != "workoutseed_db_query_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "op" {
					ops[lp.GetValue()] = true
				}
			}
		}
	}

	for _, op := range []string{"session.open", "user.insert", "user.find_by_email"} {
		if !ops[op] {
			t.Fatalf("op %q not observed, got %v", op, ops)
		}
	}

	if got := counterValue(t, p, "workoutseed_db_errors_total", map[string]string{"op": "user.insert"}); got != 1 {
		t.Fatalf("expected 1 insert error, got %v", got)
	}
}

func TestPush_SendsToGateway(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		gotBody = buf.Bytes()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProm()
	p.ObserveItem("user", "created")

	if err := p.Push(context.Background(), srv.URL, "users"); err != nil {
		t.Fatalf("Push error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Fatalf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/metrics/job/workoutseed/command/users" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if len(gotBody) == 0 {
		t.Fatalf("expected a non-empty payload")
	}
}

func TestNewLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "prod", true)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "item created", "kind", "user")
	span.End()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	if rec["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("missing or wrong trace_id: %v", rec)
	}
	if rec["service"] != ServiceName {
		t.Fatalf("missing service attribute: %v", rec)
	}
}

func TestNewLogger_DebugOnlyInDev(t *testing.T) {
	var buf bytes.Buffer

	NewLogger(&buf, "prod", false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record leaked outside dev: %s", buf.String())
	}

	NewLogger(&buf, "dev", false).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug record missing in dev")
	}
}

func TestInitTracer_EmptyEndpointIsNoop(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), ServiceName, "")
	if err != nil {
		t.Fatalf("InitTracer error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
