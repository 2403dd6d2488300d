package hr

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.March, 5)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"2026-03-05"` {
		t.Errorf("Marshal = %s, want \"2026-03-05\"", raw)
	}

	var parsed Date
	if err := json.Unmarshal([]byte(`"2026-03-05"`), &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("Unmarshal = %v, want %v", parsed, d)
	}

	if err := json.Unmarshal([]byte(`"05/03/2026"`), &parsed); err == nil {
		t.Error("expected error for non-ISO date format")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2026, 3, 5, 13, 45, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if d.String() != "2026-03-05" {
		t.Errorf("Scan(time.Time) = %s, want 2026-03-05", d)
	}

	if err := d.Scan("2026-03-06"); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if d.String() != "2026-03-06" {
		t.Errorf("Scan(string) = %s, want 2026-03-06", d)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !d.IsZero() {
		t.Error("Scan(nil) must reset the date")
	}

	if err := d.Scan(42); err == nil {
		t.Error("expected error for unsupported source type")
	}
}
