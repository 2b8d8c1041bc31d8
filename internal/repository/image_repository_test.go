package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	apperrors "go-qr-platform/internal/errors"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestFromBytes(t *testing.T) {
	repo := NewImageRepository(nil, nil)

	img, err := repo.FromBytes(testPNG(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("Expected 4px wide image, got %v", img.Bounds())
	}
}

func TestFromBytes_Unreadable(t *testing.T) {
	repo := NewImageRepository(nil, nil)

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty input", nil},
		{"Garbage bytes", []byte("definitely not an image")},
		{"Truncated PNG", testPNG(t)[:10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.FromBytes(tt.data)
			if err == nil {
				t.Fatal("Expected error for unreadable input")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
			appErr := err.(*apperrors.AppError)
			if appErr.Message != "Could not read the image file" {
				t.Errorf("Expected contract error message, got %q", appErr.Message)
			}
		})
	}
}

func TestFromBase64(t *testing.T) {
	repo := NewImageRepository(nil, nil)
	encoded := base64.StdEncoding.EncodeToString(testPNG(t))

	if _, err := repo.FromBase64(encoded); err != nil {
		t.Errorf("Unexpected error for plain base64: %v", err)
	}
	if _, err := repo.FromBase64("data:image/png;base64," + encoded); err != nil {
		t.Errorf("Unexpected error for data URL: %v", err)
	}
	if _, err := repo.FromBase64("%%%"); err == nil {
		t.Error("Expected error for malformed base64")
	}
}

func TestFromBlob_NotConfigured(t *testing.T) {
	repo := NewImageRepository(nil, nil)

	_, err := repo.FromBlob(context.Background(), "container/path?blob=x")
	if err == nil {
		t.Fatal("Expected error when blob storage is not configured")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeDependency) {
		t.Errorf("Expected dependency error, got %v", err)
	}
}
