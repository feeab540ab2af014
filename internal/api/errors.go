package api

import (
	"alcyxob/recipe-app/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// errBadRequest marks malformed bodies and path parameters.
var errBadRequest = errors.New("bad request")

// respondError is the only place errors become status codes. Internal causes
// are never written to the client.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, service.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, service.ErrOwnerRequired):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrRecipeNotFound):
		status, message = http.StatusNotFound, "recipe not found"
	case errors.Is(err, errRateLimited):
		status, message = http.StatusTooManyRequests, "rate limit exceeded"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
