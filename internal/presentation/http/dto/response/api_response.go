package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopbill/shopbill-api/pkg/apperror"
)

// ErrorBody is the error payload shape: the taxonomy status code goes on the
// wire status line, the human-readable reason in `detail`.
type ErrorBody struct {
	Detail string      `json:"detail"`
	Errors interface{} `json:"errors,omitempty"`
}

// JSON sends a success response with the resource as the payload
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// OK sends a 200 response
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created sends a 201 response
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// NoContent sends a 204 response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps an error onto its taxonomy status; unknown errors become a
// generic 500 without store-internal detail.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	body := ErrorBody{Detail: appErr.Message}
	if len(appErr.Errors) > 0 {
		body.Errors = appErr.Errors
	}
	c.JSON(appErr.Code, body)
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, ErrorBody{Detail: detail})
}

// ValidationError sends a 422 for malformed filter/amount/date input
func ValidationError(c *gin.Context, detail string) {
	ErrorWithCode(c, http.StatusUnprocessableEntity, detail)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, detail string) {
	ErrorWithCode(c, http.StatusNotFound, detail)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	ErrorWithCode(c, http.StatusUnauthorized, detail)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, detail string) {
	ErrorWithCode(c, http.StatusForbidden, detail)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, detail string) {
	ErrorWithCode(c, http.StatusBadRequest, detail)
}
