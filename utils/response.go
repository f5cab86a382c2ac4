package utils

import (
	"net/http"

	"civic-report-service/apperrors"

	"github.com/gin-gonic/gin"
)

// Envelope is the response shape every endpoint returns
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a success envelope with the given status and payload
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope. Details are only included when debug is on.
func Error(c *gin.Context, status int, message string, details string, debug bool) {
	env := Envelope{Success: false, Message: message}
	if debug && details != "" {
		env.Details = details
	}
	c.JSON(status, env)
}

// FromError maps a typed service error to its HTTP status and envelope. This
// is the single boundary between the error taxonomy and the wire. Unclassified
// errors become a 500 with the message suppressed outside debug mode.
func FromError(c *gin.Context, err error, debug bool) {
	switch {
	case apperrors.IsValidation(err):
		Error(c, http.StatusBadRequest, err.Error(), "", debug)
	case apperrors.IsUnauthorized(err):
		Error(c, http.StatusUnauthorized, err.Error(), "", debug)
	case apperrors.IsNotFound(err):
		Error(c, http.StatusNotFound, err.Error(), "", debug)
	case apperrors.IsInference(err):
		// Classifier failures are absorbed by the pipeline; one reaching
		// this boundary is a programming error, treated as upstream failure.
		Error(c, http.StatusBadGateway, "ML inference failed", err.Error(), debug)
	default:
		message := "Internal Server Error"
		if debug {
			message = err.Error()
		}
		Error(c, http.StatusInternalServerError, message, err.Error(), debug)
	}
}
