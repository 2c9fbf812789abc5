package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is the JSON error envelope: {"detail": "..."}.
// Messages are user-facing and written in Polish at the API boundary.
type Error struct {
	Detail string `json:"detail"`
}

// OK sends a 200 JSON response with the given payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest sends 400 with a detail message.
func BadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, Error{Detail: detail})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, Error{Detail: detail})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, detail string) {
	c.JSON(http.StatusForbidden, Error{Detail: detail})
}

// NotFound sends 404.
func NotFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, Error{Detail: detail})
}

// TooManyRequests sends 429.
func TooManyRequests(c *gin.Context, detail string) {
	c.JSON(http.StatusTooManyRequests, Error{Detail: detail})
}

// Conflict sends 409.
func Conflict(c *gin.Context, detail string) {
	c.JSON(http.StatusConflict, Error{Detail: detail})
}

// Internal sends 500.
func Internal(c *gin.Context, detail string) {
	c.JSON(http.StatusInternalServerError, Error{Detail: detail})
}
