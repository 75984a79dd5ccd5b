package util

import (
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{"mid year", 2025, 6, 2025, 5},
		{"january wraps", 2025, 1, 2024, 12},
		{"february", 2025, 2, 2025, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
			if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
				t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
					tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestIsHistoricalMonth(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	if !IsHistoricalMonth(2025, 5, now) {
		t.Error("expected previous month to be historical")
	}
	if !IsHistoricalMonth(2023, 1, now) {
		t.Error("expected earlier year to be historical")
	}
	if IsHistoricalMonth(2025, 6, now) {
		t.Error("expected current month to not be historical")
	}
	if IsHistoricalMonth(2025, 7, now) {
		t.Error("expected future month to not be historical")
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2025, 2)

	if !start.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", start)
	}
	if end.Month() != time.February || end.Day() != 28 {
		t.Errorf("unexpected end: %v", end)
	}
}

func TestFormatParsePeriod(t *testing.T) {
	period := FormatPeriod(2026, 3)
	if period != "2026-03" {
		t.Errorf("expected 2026-03, got %s", period)
	}

	year, month, err := ParsePeriod(period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != 2026 || month != 3 {
		t.Errorf("expected (2026, 3), got (%d, %d)", year, month)
	}
}
