package util

import (
	"reflect"
	"testing"
	"time"
)

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestMonthKey(t *testing.T) {
	got := MonthKey(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC))
	if got != "2026-03" {
		t.Errorf("MonthKey() = %s, want 2026-03", got)
	}
}

func TestLastMonths(t *testing.T) {
	now := time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)

	got := LastMonths(now, 6)
	want := []string{"2025-09", "2025-10", "2025-11", "2025-12", "2026-01", "2026-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LastMonths() = %v, want %v", got, want)
	}
}

func TestLastMonths_EndOfMonth(t *testing.T) {
	// Day 31 must not overflow into the following month
	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	got := LastMonths(now, 2)
	want := []string{"2026-02", "2026-03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LastMonths() = %v, want %v", got, want)
	}
}

func TestLastMonths_NonPositive(t *testing.T) {
	if got := LastMonths(time.Now(), 0); len(got) != 0 {
		t.Errorf("LastMonths(0) = %v, want empty", got)
	}
}
