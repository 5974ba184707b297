package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	ErrInvalidJSON   = errors.New("request body is not valid JSON")
	ErrNotJSONObject = errors.New("request body must be a JSON object")
)

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse writes a failure envelope. The error text is only included
// when debug is set.
func ErrorResponse(c *gin.Context, statusCode int, message string, err error, debug bool) {
	response := APIResponse{
		Success: false,
		Message: message,
	}
	if debug && err != nil {
		response.Error = err.Error()
	}
	c.JSON(statusCode, response)
}

// abortWithError records err for the error middleware without writing the
// header, so the middleware can still render the envelope.
func abortWithError(c *gin.Context, status int, err error) {
	c.Status(status)
	_ = c.Error(err)
	c.Abort()
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, APIResponse{
		Success: false,
		Message: "Route not found: " + c.Request.URL.Path,
	})
}

// bindJSONObject decodes the request body into obj, rejecting invalid JSON
// and anything that is not a JSON object. Field types are left to obj.
func bindJSONObject(c *gin.Context, obj interface{}) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return ErrInvalidJSON
	}
	if trimmed[0] != '{' {
		return ErrNotJSONObject
	}
	return binding.JSON.BindBody(trimmed, obj)
}
