// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type sectionDefinitionInput struct {
	UniqueID    string `validate:"required"`
	DisplayText string `validate:"required,max=100"`
	EntityName  string `validate:"required"`
	Kind        string `validate:"required,oneof=Collection Playlist"`
	ItemLimit   int    `validate:"omitempty,gte=1,lte=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input sectionDefinitionInput
	}{
		{
			name: "collection section",
			input: sectionDefinitionInput{
				UniqueID:    "favorites",
				DisplayText: "Favorites",
				EntityName:  "Favorites",
				Kind:        "Collection",
				ItemLimit:   32,
			},
		},
		{
			name: "playlist section without limit",
			input: sectionDefinitionInput{
				UniqueID:    "rewatch",
				DisplayText: "Rewatch Queue",
				EntityName:  "Rewatch",
				Kind:        "Playlist",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     sectionDefinitionInput
		wantField string
		wantTag   string
	}{
		{
			name: "missing unique id",
			input: sectionDefinitionInput{
				DisplayText: "Favorites",
				EntityName:  "Favorites",
				Kind:        "Collection",
			},
			wantField: "UniqueID",
			wantTag:   "required",
		},
		{
			name: "unknown kind",
			input: sectionDefinitionInput{
				UniqueID:    "x",
				DisplayText: "X",
				EntityName:  "X",
				Kind:        "Channel",
			},
			wantField: "Kind",
			wantTag:   "oneof",
		},
		{
			name: "limit over maximum",
			input: sectionDefinitionInput{
				UniqueID:    "x",
				DisplayText: "X",
				EntityName:  "X",
				Kind:        "Collection",
				ItemLimit:   500,
			},
			wantField: "ItemLimit",
			wantTag:   "lte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

// ===================================================================================================
// Error Translation Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	input := sectionDefinitionInput{
		DisplayText: "X",
		EntityName:  "X",
		Kind:        "Collection",
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "UniqueID is required" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "UniqueID is required")
	}
	if apiErr.Details["field"] != "UniqueID" {
		t.Errorf("Details[field] = %v, want UniqueID", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := sectionDefinitionInput{}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("expected multiple errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("Message should join multiple failures: %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Details should carry per-field breakdown under \"fields\"")
	}
}
