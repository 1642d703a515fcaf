package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

// statusFor maps an error kind to an HTTP status
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindAlreadyInProgress:
		return http.StatusConflict
	case domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindExecutableNotFound:
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with the status of its kind
func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	c.Error(err)
	c.JSON(statusFor(kind), ErrorResponse{
		Error: domain.UserMessage(err),
		Kind:  kind,
	})
}

// writeBindError reports a request body that failed to bind
func writeBindError(c *gin.Context, err error) {
	writeError(c, domain.NewError(domain.KindInvalidRequest, err.Error(), err))
}
