package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandlerMiddleware turns errors attached to the gin context into the
// structured error envelope. Domain sentinel errors are mapped to their codes
// first; anything unrecognized becomes a 500.
func ErrorHandlerMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		appErr := errors.GetAppError(err)
		if appErr == nil {
			appErr = mapDomainError(err)
		}
		if appErr != nil {
			logger.Errorw("application error",
				"code", appErr.Code,
				"message", appErr.Message,
				"status", appErr.HTTPStatus,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"context", appErr.Context,
			)

			c.JSON(appErr.HTTPStatus, gin.H{
				"error":   string(appErr.Code),
				"message": appErr.Message,
				"details": appErr.Context,
			})
			return
		}

		logger.Errorw("unhandled error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   string(errors.ErrCodeInternal),
			"message": "Internal server error",
		})
	}
}

func mapDomainError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, domain.ErrUserNotFound):
		return errors.NewNotFoundError("user")
	case stderrors.Is(err, domain.ErrGroupNotFound):
		return errors.NewNotFoundError("group")
	case stderrors.Is(err, domain.ErrNotificationNotFound):
		return errors.NewNotFoundError("notification")
	case stderrors.Is(err, domain.ErrAlreadyProcessed):
		return errors.NewAlreadyProcessedError("request already processed")
	case stderrors.Is(err, domain.ErrForbidden):
		return errors.NewForbiddenError("not allowed")
	case stderrors.Is(err, domain.ErrUserExists):
		return errors.NewConflictError("user already exists")
	case stderrors.Is(err, domain.ErrInvalidCredentials):
		return errors.NewUnauthorizedError("invalid credentials")
	default:
		return nil
	}
}

// RecoveryMiddleware recovers from panics and returns proper error responses
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Errorw("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   string(errors.ErrCodeInternal),
					"message": "Internal server error",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
