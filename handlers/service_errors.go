package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/services"
	"github.com/opsdesk/aws-agent/utils"
)

// HandleServiceError maps a service-layer error to an HTTP error response
func HandleServiceError(w http.ResponseWriter, logger *zap.Logger, requestID string, err error) {
	switch {
	case services.IsValidationError(err):
		logger.Warn("validation error",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, err.Error(), services.GetErrorDetails(err))

	case services.IsNotFoundError(err):
		logger.Info("resource not found",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteNotFound(w, err.Error())

	case services.IsUnauthorizedError(err):
		logger.Warn("unauthorized",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteUnauthorized(w, err.Error())

	case services.IsExternalError(err):
		logger.Error("upstream service error",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteServiceUnavailable(w, "Cloud provider unavailable")

	default:
		logger.Error("internal error",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "An unexpected error occurred")
	}
}
