package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamtxena/finance-scoop/internal/repository"
	pkgerrors "github.com/iamtxena/finance-scoop/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps application errors onto HTTP statuses. Rate limit
// rejections surface as 429 so the UI can distinguish them from generic
// failures.
func RespondError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, NewErrorResponse("not found"))
		return
	}

	switch pkgerrors.Code(err) {
	case pkgerrors.ErrNotFound:
		c.JSON(http.StatusNotFound, NewErrorResponse(err.Error()))
	case pkgerrors.ErrBadRequest:
		c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
	case pkgerrors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized"))
	case pkgerrors.ErrRateLimited:
		c.JSON(http.StatusTooManyRequests, NewErrorResponse("rate limit exceeded, please try again in a few minutes"))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse(err.Error()))
	}
}
