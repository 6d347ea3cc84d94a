package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampScan(t *testing.T) {
	var ts Timestamp
	if err := ts.Scan("2026-03-15T12:30:00Z"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	want := time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)
	if !ts.Time.Equal(want) {
		t.Errorf("Expected %v, got %v", want, ts.Time)
	}

	if err := ts.Scan(nil); err != nil {
		t.Fatalf("Scan nil failed: %v", err)
	}
	if !ts.Time.IsZero() {
		t.Errorf("Expected zero time after nil scan, got %v", ts.Time)
	}

	if err := ts.Scan("not a time"); err == nil {
		t.Error("Expected error scanning garbage")
	}
}

func TestTimestampValue(t *testing.T) {
	ts := Timestamp{Time: time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)}
	v, err := ts.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != "2026-03-15T12:30:00Z" {
		t.Errorf("Expected RFC3339 string, got %v", v)
	}

	var zero Timestamp
	v, err = zero.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != nil {
		t.Errorf("Expected nil for zero timestamp, got %v", v)
	}
}

func TestTimestampJSON(t *testing.T) {
	ts := Timestamp{Time: time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2026-03-15T12:30:00Z"` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var zero Timestamp
	data, err = json.Marshal(zero)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Expected null for zero timestamp, got %s", data)
	}

	var parsed Timestamp
	if err := json.Unmarshal([]byte(`"2026-03-15T12:30:00Z"`), &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !parsed.Time.Equal(ts.Time) {
		t.Errorf("Round trip mismatch: %v", parsed.Time)
	}
}

func TestNullTimestamp(t *testing.T) {
	var nt NullTimestamp
	if err := nt.Scan(nil); err != nil {
		t.Fatalf("Scan nil failed: %v", err)
	}
	if nt.Valid {
		t.Error("Expected Valid=false after nil scan")
	}

	data, err := json.Marshal(nt)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Expected null, got %s", data)
	}

	if err := nt.Scan("2026-03-15T12:30:00Z"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !nt.Valid {
		t.Error("Expected Valid=true after scanning a value")
	}
	v, err := nt.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != "2026-03-15T12:30:00Z" {
		t.Errorf("Unexpected driver value: %v", v)
	}
}
