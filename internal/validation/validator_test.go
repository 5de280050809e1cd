// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package validation

import (
	"strings"
	"testing"
)

type densityQuery struct {
	TimeFilter string `validate:"oneof=all today this_week this_hour"`
	HourOfDay  int    `validate:"min=-1,max=23"`
	DayOfWeek  int    `validate:"min=-1,max=6"`
}

type movementQuery struct {
	TimeFilter   string `validate:"oneof=all today this_week this_hour"`
	MinFrequency int    `validate:"min=1"`
}

func TestValidateStructPasses(t *testing.T) {
	tests := []struct {
		name string
		s    interface{}
	}{
		{"density defaults", &densityQuery{TimeFilter: "all", HourOfDay: -1, DayOfWeek: -1}},
		{"density with hour", &densityQuery{TimeFilter: "today", HourOfDay: 23, DayOfWeek: 6}},
		{"movement defaults", &movementQuery{TimeFilter: "this_week", MinFrequency: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.s); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStructFails(t *testing.T) {
	tests := []struct {
		name      string
		s         interface{}
		wantField string
	}{
		{"bad time filter", &densityQuery{TimeFilter: "yesterday", HourOfDay: -1, DayOfWeek: -1}, "TimeFilter"},
		{"hour too large", &densityQuery{TimeFilter: "all", HourOfDay: 24, DayOfWeek: -1}, "HourOfDay"},
		{"day too large", &densityQuery{TimeFilter: "all", HourOfDay: -1, DayOfWeek: 7}, "DayOfWeek"},
		{"zero min frequency", &movementQuery{TimeFilter: "all", MinFrequency: 0}, "MinFrequency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.s)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(err.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(err.Errors()), err)
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("failing field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&densityQuery{TimeFilter: "bogus", HourOfDay: -1, DayOfWeek: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "TimeFilter") {
		t.Errorf("Message = %q, want mention of TimeFilter", apiErr.Message)
	}
	if apiErr.Details["field"] != "TimeFilter" {
		t.Errorf("Details[field] = %v, want TimeFilter", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	err := ValidateStruct(&densityQuery{TimeFilter: "bogus", HourOfDay: 99, DayOfWeek: 99})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("got %d errors, want 3", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has unexpected type %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("got %d field details, want 3", len(fields))
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
