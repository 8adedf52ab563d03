package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egma/backend/internal/interfaces/http/dto"
)

func newBodyLimitRouter(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), BodyLimit(maxBytes))
	engine.POST("/api/v1/proposals", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestBodyLimit_AllowsSmallPayload(t *testing.T) {
	engine := newBodyLimitRouter(1024)

	rec := postJSON(engine, "/api/v1/proposals", `{"title": "Website redesign"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimit_RejectsDeclaredOversizedPayload(t *testing.T) {
	engine := newBodyLimitRouter(64)

	rec := postJSON(engine, "/api/v1/proposals", strings.Repeat("x", 200))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodePayloadTooLarge, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestBodyLimit_CapsChunkedUploads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodyLimit(50))
	engine.POST("/api/v1/proposals", func(c *gin.Context) {
		buf := make([]byte, 200)
		if _, err := c.Request.Body.Read(buf); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proposals",
		strings.NewReader(strings.Repeat("x", 100)))
	// No declared length; only MaxBytesReader can enforce the cap
	req.ContentLength = -1
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
