// Package service implements the business rules behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"log/slog"

	"unfake/internal/middleware"
	"unfake/internal/models"
)

// storeError passes AppErrors through and turns anything else into a logged
// internal error whose cause never reaches the client.
func storeError(ctx context.Context, op string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	middleware.Logger.ErrorContext(ctx, "store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return models.NewInternalError(err)
}
