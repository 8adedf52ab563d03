package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egma/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request body size. Oversized Content-Length is rejected
// up front; chunked uploads are capped by MaxBytesReader so a handler's
// read fails once the limit is crossed.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(
					dto.ErrCodePayloadTooLarge,
					"Request body exceeds the maximum allowed size",
					c.GetString("request_id"),
				))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
