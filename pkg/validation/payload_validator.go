package validation

import (
	"encoding/base64"
	"net/url"
	"strings"

	apperrors "go-qr-platform/internal/errors"
)

// PayloadValidator checks image references before any core work runs.
type PayloadValidator struct {
	allowedSchemes []string
	maxPayloadSize int
}

// NewPayloadValidator creates a validator with default settings.
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{
		allowedSchemes: []string{"http", "https"},
		maxPayloadSize: 10 * 1024 * 1024,
	}
}

// NewPayloadValidatorWithOptions creates a validator with custom limits.
func NewPayloadValidatorWithOptions(schemes []string, maxPayloadSize int) *PayloadValidator {
	return &PayloadValidator{
		allowedSchemes: schemes,
		maxPayloadSize: maxPayloadSize,
	}
}

// ValidateImageURL validates if the provided URL is acceptable for fetching
func (v *PayloadValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	return nil
}

// ValidateBase64Payload checks a base64 image payload for emptiness, size,
// and encoding before it is decoded into pixels. A data-URL prefix is
// tolerated.
func (v *PayloadValidator) ValidateBase64Payload(payload string) error {
	if strings.TrimSpace(payload) == "" {
		return apperrors.NewValidationError("Image payload cannot be empty", nil)
	}
	if len(payload) > v.maxPayloadSize {
		return apperrors.NewValidationError("Image payload exceeds maximum size", nil)
	}

	if idx := strings.Index(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return apperrors.NewValidationError("Image payload is not valid base64", err)
	}

	return nil
}

func (v *PayloadValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}
