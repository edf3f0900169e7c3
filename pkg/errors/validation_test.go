package errors

import (
	"strings"
	"testing"
)

func TestValidatePathwayName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "Sales Outreach v2", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 257), true},
		{"control characters", "name\x01here", true},
		{"path traversal", "../etc/passwd", true},
		{"double slash", "a//b", true},
		{"backslash", "a\\b", true},
		{"unicode ok", "Ventes Sortantes", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathwayName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathwayName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePathwayID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"pw-123", false},
		{"abc.DEF_9", false},
		{"", true},
		{"-leading-dash", true},
		{"has space", true},
		{strings.Repeat("x", 129), true},
	}
	for _, tt := range tests {
		if err := ValidatePathwayID(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePathwayID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateTransferNumber(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"+1234567890", false},
		{"1234567890", false},
		{"", true},
		{"+1", true},
		{"call-me", true},
		{"+123456789012345678", true},
	}
	for _, tt := range tests {
		if err := ValidateTransferNumber(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateTransferNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://api.example.com/v1", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://example.com", true},
		{"example.com", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
