package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Client errors echo the
// error text; server errors log it and return fallbackMsg.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrCollaborator):
		logger.Error("Collaborator failure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": fallbackMsg})
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
