package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
	"github.com/jwalitptl/vetclinic-api/pkg/validator"
)

// Response is the envelope for error replies. Successful replies carry the
// resource itself.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithError maps err to its HTTP status and writes the error envelope.
// Errors that are not AppErrors are logged and reported as 500.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, NewErrorResponse(appErr.Message))
}

// RespondWithBindError reports a request body that failed binding or validation.
func RespondWithBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse(validator.Message(err)))
}

// ParseID reads a positive integer path parameter. On failure it has already
// written a 400 reply.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse("invalid "+name))
		return 0, false
	}
	return id, true
}
