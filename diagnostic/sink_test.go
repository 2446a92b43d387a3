package diagnostic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/backendclient/logger"
)

func TestMulti_ForwardsInOrderAndSkipsNil(t *testing.T) {
	var order []string
	a := SinkFunc(func(context.Context, Record) { order = append(order, "a") })
	b := SinkFunc(func(context.Context, Record) { order = append(order, "b") })

	Multi(a, nil, b).Emit(context.Background(), Record{Class: ClassGeneric})

	if strings.Join(order, ",") != "a,b" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestDiscard(t *testing.T) {
	Discard.Emit(context.Background(), Record{})
}

func TestRecord_HasResponse(t *testing.T) {
	if (Record{}).HasResponse() {
		t.Error("zero status should mean no response")
	}
	if !(Record{StatusCode: 404}).HasResponse() {
		t.Error("404 should count as a response")
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Emit(context.Background(), Record{Class: ClassServer})
		}()
	}
	wg.Wait()

	if got := len(r.Records()); got != 50 {
		t.Errorf("expected 50 records, got %d", got)
	}
	if _, ok := r.Last(); !ok {
		t.Error("expected a last record")
	}
	r.Reset()
	if _, ok := r.Last(); ok {
		t.Error("expected no records after Reset")
	}
}

func TestLogSink_WritesClassifiedRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantMsg string
	}{
		{"auth", Record{Class: ClassAuthentication, StatusCode: 401, Detail: map[string]any{"error": "expired"}}, "Authentication error"},
		{"forbidden", Record{Class: ClassAuthorization, StatusCode: 403}, "Authorization error"},
		{"server", Record{Class: ClassServer, StatusCode: 503}, "Server error"},
		{"network", Record{Class: ClassGeneric, Detail: "connection refused"}, "API error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "", &buf)
			NewLogSink(log).Emit(context.Background(), tc.rec)

			var m map[string]any
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
				t.Fatalf("invalid log line: %v (%s)", err, buf.String())
			}
			if m["message"] != tc.wantMsg {
				t.Errorf("message = %v, want %q", m["message"], tc.wantMsg)
			}
			if m[logger.FieldClass] != tc.rec.Class.String() {
				t.Errorf("class = %v", m[logger.FieldClass])
			}
			_, hasStatus := m[logger.FieldStatusCode]
			if hasStatus != tc.rec.HasResponse() {
				t.Errorf("status_code present = %v, want %v", hasStatus, tc.rec.HasResponse())
			}
		})
	}
}

func TestMetricSink_CountsByClass(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	sink, err := NewMetricSink(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricSink: %v", err)
	}

	ctx := context.Background()
	sink.Emit(ctx, Record{Class: ClassServer, StatusCode: 503, Method: "GET"})
	sink.Emit(ctx, Record{Class: ClassServer, StatusCode: 503, Method: "GET"})
	sink.Emit(ctx, Record{Class: ClassGeneric, Method: "GET", Err: errors.New("refused")})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var total int64
	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != failuresMetric {
				continue
			}
			found = true
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			if len(sum.DataPoints) != 2 {
				t.Errorf("expected 2 attribute sets, got %d", len(sum.DataPoints))
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if !found {
		t.Fatal("failure counter not exported")
	}
	if total != 3 {
		t.Errorf("expected 3 failures counted, got %d", total)
	}
}
