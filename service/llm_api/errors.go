package llmApi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

// ValidationError is a client error detected before any provider call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// WriteError is the single place where failures become an error envelope:
// validation errors map to 400, everything else to 500.
func WriteError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, JsonErr{verr.Message})
		return
	}

	log.WithError(err).WithFields(log.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, JsonErr{err.Error()})
}
