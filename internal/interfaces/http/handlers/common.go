package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/ContractLens/internal/interfaces/http/middleware"
	"github.com/turtacn/ContractLens/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError maps err to its HTTP status.  Server-side failures are masked;
// client errors carry their message and detail.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	body := ErrorResponse{
		Code:      code.String(),
		Message:   errors.DefaultMessageForCode(code),
		RequestID: middleware.GetRequestID(c),
	}
	var ae *errors.AppError
	if status < 500 && errors.As(err, &ae) {
		body.Message = ae.Message
		body.Detail = ae.Detail
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

//Personal.AI order the ending
