package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"bookstore-server/internal/schemas"
	"bookstore-server/internal/utils"
	"bookstore-server/internal/validators"
)

// ValidateAndSanitizeStruct binds the request body into a fresh instance of
// the given struct type, sanitizes it and validates it. The sanitized
// payload ends up in the context under SanitizedPayloadKey.
func ValidateAndSanitizeStruct(template interface{}) gin.HandlerFunc {
	templateType := reflect.TypeOf(template).Elem()

	return func(c *gin.Context) {
		obj := reflect.New(templateType).Interface()

		if err := c.ShouldBindJSON(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		validator := validators.GetValidator()
		if err := validator.SanitizeData(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		if err := validator.Validate.Struct(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), obj)
		c.Next()
	}
}
