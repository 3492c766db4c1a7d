package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-server/internal/schemas"
)

// WriteAndLogError logs the causing error and aborts the request with the
// given catalog error and status.
func WriteAndLogError(ctx *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFieldsAndError(ctx, "error", fmt.Sprintf("Request failed with %s", customErr.Code), err)
	ctx.AbortWithStatusJSON(statusCode, &schemas.ErrorDTO{Error: *customErr})
}

// WriteAndLogResponse writes the response body and logs the outcome.
func WriteAndLogResponse(ctx *gin.Context, obj interface{}, statusCode int) {
	LogMessageWithFields(ctx, "debug", fmt.Sprintf("Request succeeded with status %d", statusCode))
	ctx.JSON(statusCode, obj)
}

// RedirectToLogin sends the caller to the login page, the framework-level
// answer to unauthenticated access.
func RedirectToLogin(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/api/users/login")
	ctx.Abort()
}
