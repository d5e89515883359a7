package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tamarind/backend/internal/interfaces/http/dto"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	r := gin.New()
	r.Use(BodyLimit(limit))
	r.POST("/upload", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})
	return r
}

func TestBodyLimit(t *testing.T) {
	t.Run("accepts body within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		bodyLimitRouter(16).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("small")))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Body.String())
	})

	t.Run("rejects declared oversize body", func(t *testing.T) {
		w := httptest.NewRecorder()
		bodyLimitRouter(4).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("too large")))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, decodeError(t, w).Error.Code)
	})

	t.Run("caps streamed body without content length", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("streamed body"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		bodyLimitRouter(4).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("non-positive limit disables it", func(t *testing.T) {
		w := httptest.NewRecorder()
		bodyLimitRouter(0).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("a", 1000))))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1000", w.Body.String())
	})
}
