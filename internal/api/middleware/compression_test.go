package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gzip(DefaultGzipConfig()))
	r.POST("/echo", handler)
	r.GET("/payload", handler)
	return r
}

func TestGzipResponses(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		contentType    string
		bodySize       int
		wantGzip       bool
	}{
		{
			name:           "large JSON response is compressed",
			acceptEncoding: "gzip",
			contentType:    "application/json",
			bodySize:       4096,
			wantGzip:       true,
		},
		{
			name:           "small response stays uncompressed",
			acceptEncoding: "gzip",
			contentType:    "application/json",
			bodySize:       128,
			wantGzip:       false,
		},
		{
			name:           "client without gzip support",
			acceptEncoding: "",
			contentType:    "application/json",
			bodySize:       4096,
			wantGzip:       false,
		},
		{
			name:           "skipped content type",
			acceptEncoding: "gzip",
			contentType:    "image/png",
			bodySize:       4096,
			wantGzip:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"accepted":true,"padding":"` + strings.Repeat("x", tt.bodySize) + `"}`
			router := gzipRouter(func(c *gin.Context) {
				c.Header("Content-Type", tt.contentType)
				c.String(http.StatusOK, body)
			})

			req := httptest.NewRequest(http.MethodGet, "/payload", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			if tt.wantGzip {
				assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
				reader, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
				require.NoError(t, err)
				defer reader.Close()
				decoded, err := io.ReadAll(reader)
				require.NoError(t, err)
				assert.Equal(t, body, string(decoded))
			} else {
				assert.NotEqual(t, "gzip", w.Header().Get("Content-Encoding"))
				assert.Equal(t, body, w.Body.String())
			}
		})
	}
}

func TestGzipRequestBody(t *testing.T) {
	router := gzipRouter(func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, string(body))
	})

	payload := `{"subject":"user@example.com","operation_type":"password_change"}`
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.String())
}

func TestGzipRejectsCorruptRequestBody(t *testing.T) {
	router := gzipRouter(func(c *gin.Context) {
		c.String(http.StatusOK, "unreachable")
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("plain text"))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
