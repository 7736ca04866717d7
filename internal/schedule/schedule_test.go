package schedule

import (
	"testing"
	"time"
)

func TestHourStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"mid hour",
			time.Date(2024, 5, 10, 14, 23, 45, 123, time.UTC),
			time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC),
		},
		{
			"already aligned",
			time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC),
		},
		{
			"last minute of hour",
			time.Date(2024, 5, 10, 14, 59, 59, 0, time.UTC),
			time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HourStart(tt.in); !got.Equal(tt.want) {
				t.Fatalf("HourStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHourStartSameSlotForSameHour(t *testing.T) {
	a := HourStart(time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC))
	b := HourStart(time.Date(2024, 5, 10, 14, 59, 0, 0, time.UTC))
	if !a.Equal(b) {
		t.Fatalf("14:00 and 14:59 map to different slots: %v vs %v", a, b)
	}
}

func TestCancelDeadline(t *testing.T) {
	date := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	want := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	if got := CancelDeadline(date); !got.Equal(want) {
		t.Fatalf("CancelDeadline(%v) = %v, want %v", date, got, want)
	}
}

func TestFormatPT(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			"may afternoon",
			time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC),
			"dia 10 de maio, às 14:00",
		},
		{
			"single digit day is padded",
			time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC),
			"dia 03 de janeiro, às 08:00",
		},
		{
			"december evening",
			time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC),
			"dia 31 de dezembro, às 23:30",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPT(tt.in); got != tt.want {
				t.Fatalf("FormatPT(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
