// Package rest binds the messaging operations to a JSON HTTP API using gin.
package rest

import (
	"github.com/gin-gonic/gin"
)

// Error codes carried in the "code" field of failed responses.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeMessageNotFound = "MESSAGE_NOT_FOUND"
	CodeAuth            = "AUTH_ERROR"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeInternal        = "INTERNAL_ERROR"
)

// dataEnvelope wraps successful responses. Data is always present, even
// when it is an empty list.
type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope wraps failed responses.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, dataEnvelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Success: false, Error: message, Code: code})
}
