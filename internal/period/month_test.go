package period

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    Month
		wantErr bool
	}{
		{in: "2024-01", want: Month{2024, time.January}},
		{in: "2024-12", want: Month{2024, time.December}},
		{in: "2024-03-15", want: Month{2024, time.March}},
		{in: "2024-03-15T10:00:00Z", want: Month{2024, time.March}},
		{in: "2024-9", wantErr: true},
		{in: "2024-13", wantErr: true},
		{in: "", wantErr: true},
		{in: "march", wantErr: true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tc.in)
			}
			if err != nil && !errors.Is(err, ErrInvalidMonth) {
				t.Errorf("Parse(%q): error %v not ErrInvalidMonth", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCompareAcrossYears(t *testing.T) {
	sep := Month{2024, time.September}
	oct := Month{2024, time.October}
	jan := Month{2025, time.January}

	if !sep.Before(oct) {
		t.Fatal("2024-09 should precede 2024-10")
	}
	if !oct.Before(jan) {
		t.Fatal("2024-10 should precede 2025-01")
	}
	if sep.Compare(sep) != 0 {
		t.Fatal("month should equal itself")
	}
}

func TestSpan(t *testing.T) {
	jan24 := Month{2024, time.January}
	dec24 := Month{2024, time.December}
	jan25 := Month{2025, time.January}

	if got := Span(jan24, dec24); got != 11 {
		t.Fatalf("Span(jan, dec) = %d, want 11", got)
	}
	if got := Span(jan24, jan25); got != 12 {
		t.Fatalf("Span(jan24, jan25) = %d, want 12", got)
	}
	if got := Span(jan24, jan24); got != 0 {
		t.Fatalf("Span(same) = %d, want 0", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	m := Month{2024, time.February}
	if m.String() != "2024-02" {
		t.Fatalf("String() = %q", m.String())
	}
	parsed, err := Parse(m.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != m {
		t.Fatalf("round trip mismatch: %v", parsed)
	}
	if m.YearKey() != "2024" {
		t.Fatalf("YearKey() = %q", m.YearKey())
	}
}
