package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
)

func TestContextFieldsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "coordinator", "info")

	ctx := wrap.WithAction(context.Background(), "accept_ride")
	ctx = wrap.WithRequestID(ctx, "req-1")
	ctx = wrap.WithRideID(ctx, "ride-1")
	ctx = wrap.WithDriverID(ctx, "d@x.io")

	l.Info(ctx, "ride accepted", "attempt", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	want := map[string]any{
		"message":    "ride accepted",
		"service":    "coordinator",
		"action":     "accept_ride",
		"request_id": "req-1",
		"ride_id":    "ride-1",
		"driver_id":  "d@x.io",
		"level":      "INFO",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}
	if rec["attempt"] != float64(1) {
		t.Errorf("attempt = %v", rec["attempt"])
	}
}

func TestLevelIsCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "coordinator", "warn")

	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %s", buf.String())
	}
	l.Warn(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Fatal("warn not logged")
	}
}

func TestErrorCarriesRaiseSiteContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "coordinator", LevelDebug)

	raised := wrap.WithRideID(wrap.WithAction(context.Background(), "complete_ride"), "ride-9")
	err := wrap.Error(raised, errors.New("db down"))

	l.Error(wrap.ErrorCtx(context.Background(), err), "request failed", err)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["ride_id"] != "ride-9" || rec["action"] != "complete_ride" {
		t.Errorf("raise-site context lost: %v", rec)
	}
	e, _ := rec["error"].(map[string]any)
	if e["msg"] != "db down" {
		t.Errorf("error = %v", rec["error"])
	}
}

func TestValidateLogLevel(t *testing.T) {
	for lvl, want := range map[string]bool{"debug": true, "INFO": true, "Warn": true, "error": true, "trace": false, "": false} {
		if got := ValidateLogLevel(lvl); got != want {
			t.Errorf("ValidateLogLevel(%q) = %v, want %v", lvl, got, want)
		}
	}
}
