package repository

import apperrors "go-qr-platform/internal/errors"

// ErrUnreadableImage is the distinct error for a corrupt or unreadable
// image source, raised before any decode engine is invoked. The message is
// part of the API contract.
func ErrUnreadableImage(cause error) *apperrors.AppError {
	return apperrors.NewValidationError("Could not read the image file", cause)
}
