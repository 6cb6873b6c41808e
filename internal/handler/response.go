package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gexwatch/internal/apperr"
)

// The wire shapes here are fixed for compatibility with existing clients:
// errors are always {"error": ...} with an optional "details".

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func failWithDetails(c *gin.Context, status int, message, details string) {
	c.JSON(status, gin.H{"error": message, "details": details})
}

// failFromError maps a typed error onto its HTTP status. Storage and
// unknown failures are logged server-side and replaced with a generic
// message.
func failFromError(c *gin.Context, err error, logger *zap.Logger) {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		fail(c, http.StatusBadRequest, err.Error())
	case apperr.KindConflict:
		fail(c, http.StatusConflict, err.Error())
	case apperr.KindNotFound:
		fail(c, http.StatusNotFound, notFoundMessage(err))
	case apperr.KindFetchFailed:
		fail(c, http.StatusInternalServerError, err.Error())
	default:
		if logger != nil {
			logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func notFoundMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "not found"
}
