package caldate

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAddNormalizes(t *testing.T) {
	tests := []struct {
		start string
		days  int
		want  string
	}{
		{"2026-01-31", 1, "2026-02-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2026-12-31", 1, "2027-01-01"},
	}
	for _, tc := range tests {
		got := MustParse(tc.start).Add(tc.days)
		if got.String() != tc.want {
			t.Fatalf("%s + %d days: got %s want %s", tc.start, tc.days, got, tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := MustParse("2026-03-10")
	if n := DaysBetween(a, a.Add(1)); n != 1 {
		t.Fatalf("expected 1 day, got %d", n)
	}
	if n := DaysBetween(a, a); n != 0 {
		t.Fatalf("expected 0 days, got %d", n)
	}
	if n := DaysBetween(a.Add(3), a); n != -3 {
		t.Fatalf("expected -3 days, got %d", n)
	}
}

func TestDaysBetweenAcrossDSTBoundary(t *testing.T) {
	// 2026-03-08 is a US spring-forward date; day difference must still be 1.
	a := New(2026, time.March, 7)
	b := New(2026, time.March, 8)
	if n := DaysBetween(a, b); n != 1 {
		t.Fatalf("expected 1 day across DST boundary, got %d", n)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2026-08-28")
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2026-08-28"` {
		t.Fatalf("unexpected encoding %s", raw)
	}
	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}

	var zero Date
	raw, err = json.Marshal(zero)
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(raw) != `""` {
		t.Fatalf("zero date encoding %s", raw)
	}
	var zback Date
	if err := json.Unmarshal(raw, &zback); err != nil {
		t.Fatalf("unmarshal zero: %v", err)
	}
	if !zback.IsZero() {
		t.Fatalf("expected zero date back")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("08/28/2026"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}
