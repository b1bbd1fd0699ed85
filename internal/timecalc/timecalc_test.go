package timecalc_test

import (
	"math"
	"testing"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

func TestElapsedHours(t *testing.T) {
	day := func(h, m, s int) time.Time { return time.Date(2026, 2, 27, h, m, s, 0, time.UTC) }
	tests := []struct {
		name       string
		start, end time.Time
		want       float64
	}{
		{"full day", day(9, 0, 0), day(17, 30, 0), 8.5},
		{"zero", day(9, 0, 0), day(9, 0, 0), 0},
		{"one second", day(9, 0, 0), day(9, 0, 1), 1.0 / 3600},
		{"fraction dropped", day(9, 0, 0), day(9, 0, 1).Add(900 * time.Millisecond), 1.0 / 3600},
		{"negative", day(10, 0, 0), day(9, 0, 0), 0},
		{"across midnight", day(22, 0, 0), day(22, 0, 0).Add(4 * time.Hour), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timecalc.ElapsedHours(tt.start, tt.end)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ElapsedHours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0.00"},
		{8.5, "8.50"},
		{1.0 / 3, "0.33"},
		{7.999, "8.00"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatHours(tt.hours); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate(" 2024-06-01 ", time.UTC)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.June || d.Day() != 1 {
		t.Errorf("ParseDate = %v", d)
	}
	if _, err := timecalc.ParseDate("01.06.2024", time.UTC); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestMonthHelpers(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	if got := timecalc.MonthLabel(now); got != "2026_03" {
		t.Errorf("MonthLabel = %q, want %q", got, "2026_03")
	}
	if !timecalc.InMonth("2026-03-01", now) {
		t.Error("InMonth(2026-03-01) = false")
	}
	if timecalc.InMonth("2026-04-01", now) {
		t.Error("InMonth(2026-04-01) = true")
	}
	m, err := timecalc.ParseMonth("2026-03", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if m.Day() != 1 || m.Month() != time.March {
		t.Errorf("ParseMonth = %v", m)
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	got := timecalc.DaysBetween(from, to)
	want := []string{"2026-02-27", "2026-02-28", "2026-03-01"}
	if len(got) != len(want) {
		t.Fatalf("DaysBetween = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DaysBetween[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
