package middleware

import (
	"net/http"

	"github.com/mashirou1234/yesod-auth/pkg/apperror"
	"github.com/mashirou1234/yesod-auth/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodySize limits the request body. A declared Content-Length over the
// limit is rejected up front with 413; otherwise reads past the limit fail.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Abort(c, apperror.ErrBodyTooLarge())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
