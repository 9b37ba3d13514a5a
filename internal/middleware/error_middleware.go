package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/logger"
)

// ErrorTemplate renders failures for HTML clients
const ErrorTemplate = "error.html"

// HandleError maps err onto a status code and writes either the error page or a JSON ErrorResponse
func HandleError(c *gin.Context, err error) {
	status, errorDetail := classifyError(err)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}

	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: ErrorTemplate,
		HTMLData: gin.H{
			"status":  status,
			"title":   http.StatusText(status),
			"message": errorDetail.Message,
			"user":    CurrentDriver(c),
		},
		JSONData: dto.NewErrorResponse(errorDetail),
	})
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	if verr, ok := apperrors.AsValidationError(err); ok {
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithSeverity(dto.ErrorSeverityWarning).
			WithDetails(verr.Fields)
	}

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOf(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageOf(err, "Invalid request"))
	case errors.Is(err, apperrors.ErrAuthenticationRequired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Session expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid session")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, messageOf(err, "Resource already exists"))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// messageOf prefers the message of a CustomError over fallback
func messageOf(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
