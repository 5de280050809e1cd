// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package models

import (
	"testing"
	"time"
)

func TestTimeFilterValid(t *testing.T) {
	valid := []TimeFilter{TimeFilterAll, TimeFilterToday, TimeFilterThisWeek, TimeFilterThisHour}
	for _, f := range valid {
		if !f.Valid() {
			t.Errorf("TimeFilter(%q).Valid() = false, want true", f)
		}
	}

	invalid := []TimeFilter{"", "yesterday", "this_month", "ALL"}
	for _, f := range invalid {
		if f.Valid() {
			t.Errorf("TimeFilter(%q).Valid() = true, want false", f)
		}
	}
}

func TestTimeFilterWindowStart(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		filter TimeFilter
		want   *time.Time
	}{
		{TimeFilterAll, nil},
		{TimeFilterToday, timePtr(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))},
		{TimeFilterThisWeek, timePtr(now.Add(-7 * 24 * time.Hour))},
		{TimeFilterThisHour, timePtr(now.Add(-1 * time.Hour))},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := tt.filter.WindowStart(now)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("WindowStart() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("WindowStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeFilterWindowStartUnknownIsUnbounded(t *testing.T) {
	if got := TimeFilter("bogus").WindowStart(time.Now()); got != nil {
		t.Errorf("WindowStart() for unknown filter = %v, want nil", got)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
