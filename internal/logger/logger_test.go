package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "fetched page",
			fields:  Fields{"slug": "iowa-state"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "tables on page",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "team failed",
			err:     errors.New("unexpected status code: 500"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := buf.Len()

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > before
			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestLogger_WithAddsBaseFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf).With(Fields{"run_id": "abc"})

	logger.Info("starting", Fields{"season": 2026})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if entry.Fields["run_id"] != "abc" {
		t.Errorf("run_id = %v, want abc", entry.Fields["run_id"])
	}
	if entry.Fields["season"] != float64(2026) {
		t.Errorf("season = %v, want 2026", entry.Fields["season"])
	}
	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(LevelInfo, &buf)
	_ = parent.With(Fields{"run_id": "abc"})

	parent.Info("plain", nil)

	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("parent logger picked up child fields: %s", buf.String())
	}
}

func TestLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	New(LevelInfo, &buf).Error("failed", nil, errors.New("boom"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if entry.Error != "boom" {
		t.Errorf("Error = %q, want boom", entry.Error)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" INFO ", LevelInfo, false},
		{"Warn", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(tt.minLevel, &buf).log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("gamelog.fetched")
	m.IncrCounter("gamelog.fetched")
	m.AddCounter("gamelog.fetched", 3)

	counters := m.GetSnapshot()["counters"].(map[string]int64)
	if counters["gamelog.fetched"] != 5 {
		t.Errorf("Counter = %v, want 5", counters["gamelog.fetched"])
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("teams.active", 360)
	m.SetGauge("teams.active", 364)

	gauges := m.GetSnapshot()["gauges"].(map[string]float64)
	if gauges["teams.active"] != 364 {
		t.Errorf("Gauge = %v, want 364", gauges["teams.active"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("fetch.get", 100*time.Millisecond)
	m.RecordTiming("fetch.get", 200*time.Millisecond)
	m.RecordTiming("fetch.get", 150*time.Millisecond)

	timings := m.GetSnapshot()["timings"].(map[string]map[string]interface{})

	got := timings["fetch.get"]
	if got["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", got["count"])
	}
	if got["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", got["min"])
	}
	if got["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", got["max"])
	}
	if got["average"].(string) != "150ms" {
		t.Errorf("Average timing = %v, want 150ms", got["average"])
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(prev)

	Debug("debug", nil)
	Info("info", Fields{"key": "value"})
	Warn("warn", nil)
	Error("error", Fields{"component": "test"}, errors.New("test"))

	if lines := strings.Count(buf.String(), "\n"); lines != 4 {
		t.Errorf("wrote %d lines, want 4", lines)
	}

	IncrCounter("test")
	AddCounter("test", 2)
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	if GetMetricsSnapshot() == nil {
		t.Error("GetMetricsSnapshot() returned nil")
	}
}
