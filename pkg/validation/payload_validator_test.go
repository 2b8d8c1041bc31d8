package validation

import (
	"encoding/base64"
	"strings"
	"testing"

	apperrors "go-qr-platform/internal/errors"
)

func TestValidateImageURL(t *testing.T) {
	validator := NewPayloadValidator()

	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{"Valid HTTP URL", "http://example.com/qr.png", false},
		{"Valid HTTPS URL", "https://example.com/qr.png", false},
		{"Empty URL", "", true},
		{"Whitespace URL", "   ", true},
		{"Missing scheme", "example.com/qr.png", true},
		{"Disallowed scheme", "ftp://example.com/qr.png", true},
		{"File scheme", "file:///etc/passwd", true},
		{"Missing host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tt.url)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for URL %q", tt.url)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for URL %q: %v", tt.url, err)
			}
			if tt.expectError && err != nil && !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error type, got %v", err)
			}
		})
	}
}

func TestValidateImageURL_CustomSchemes(t *testing.T) {
	validator := NewPayloadValidatorWithOptions([]string{"https"}, 1024)

	if err := validator.ValidateImageURL("http://example.com/qr.png"); err == nil {
		t.Error("Expected http to be rejected when only https is allowed")
	}
	if err := validator.ValidateImageURL("https://example.com/qr.png"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateBase64Payload(t *testing.T) {
	validator := NewPayloadValidator()
	valid := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	tests := []struct {
		name        string
		payload     string
		expectError bool
	}{
		{"Valid payload", valid, false},
		{"Valid data URL", "data:image/png;base64," + valid, false},
		{"Empty payload", "", true},
		{"Whitespace payload", "  ", true},
		{"Invalid base64", "!!!not-base64!!!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBase64Payload(tt.payload)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for payload %q", tt.payload)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for payload %q: %v", tt.payload, err)
			}
		})
	}
}

func TestValidateBase64Payload_SizeLimit(t *testing.T) {
	validator := NewPayloadValidatorWithOptions([]string{"http", "https"}, 100)

	oversized := strings.Repeat("A", 101)
	if err := validator.ValidateBase64Payload(oversized); err == nil {
		t.Error("Expected error for oversized payload")
	}
}
