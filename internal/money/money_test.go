package money

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1430, 1430},
		{10.005, 10.01},
		{10.004, 10.0},
		{-2.345, -2.35},
		{0.1 + 0.2, 0.3},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCents(t *testing.T) {
	if got := Cents(1430.005); got != 143001 {
		t.Fatalf("Cents(1430.005) = %d, want 143001", got)
	}
	if got := Cents(0.1 + 0.2); got != 30 {
		t.Fatalf("Cents(0.3) = %d, want 30", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(1430); got != "$1,430.00" {
		t.Fatalf("Format(1430) = %q", got)
	}
	if got := FormatSigned(-20); got != "-$20.00" {
		t.Fatalf("FormatSigned(-20) = %q", got)
	}
	if got := FormatSigned(10); got != "+$10.00" {
		t.Fatalf("FormatSigned(10) = %q", got)
	}
}
