package normalization

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeDateEpochMillis(t *testing.T) {
	got := NormalizeDate(float64(1700000000000))
	if got == nil {
		t.Fatalf("NormalizeDate: expected instant, got nil")
	}
	want := time.UnixMilli(1700000000000).UTC()
	if !got.Equal(want) {
		t.Fatalf("NormalizeDate: got %v, want %v", got, want)
	}

	// A decoded JSON number arrives as float64; int paths must agree.
	if viaInt := NormalizeDate(int64(1700000000000)); viaInt == nil || !viaInt.Equal(want) {
		t.Fatalf("NormalizeDate(int64): got %v, want %v", viaInt, want)
	}
	if viaNum := NormalizeDate(json.Number("1700000000000")); viaNum == nil || !viaNum.Equal(want) {
		t.Fatalf("NormalizeDate(json.Number): got %v, want %v", viaNum, want)
	}
}

func TestNormalizeDateString(t *testing.T) {
	got := NormalizeDate("2024-03-01T10:00:00Z")
	if got == nil {
		t.Fatalf("NormalizeDate: expected instant, got nil")
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NormalizeDate: got %v, want %v", got, want)
	}

	if d := NormalizeDate("2024-03-01"); d == nil || !d.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("NormalizeDate(date-only): got %v", d)
	}
}

func TestNormalizeDateGarbage(t *testing.T) {
	cases := []any{
		nil,
		"not a date",
		"",
		"   ",
		true,
		[]string{"2024-03-01"},
		map[string]any{"date": 1},
	}
	for _, raw := range cases {
		if got := NormalizeDate(raw); got != nil {
			t.Fatalf("NormalizeDate(%v): expected nil, got %v", raw, got)
		}
	}
}
