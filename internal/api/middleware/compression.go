package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GzipConfig controls response compression. The API serves JSON almost
// exclusively, so responses below MinSize or with an already-compressed
// content type go out as-is.
type GzipConfig struct {
	// MinSize is the smallest response body, in bytes, worth compressing.
	MinSize int
	// Level is the gzip compression level passed to gzip.NewWriterLevel.
	Level int
	// SkipContentTypes lists content-type prefixes that are never
	// compressed.
	SkipContentTypes []string
}

// DefaultGzipConfig returns the settings used by the API server.
func DefaultGzipConfig() GzipConfig {
	return GzipConfig{
		MinSize: 1024,
		Level:   gzip.DefaultCompression,
		SkipContentTypes: []string{
			"image/",
			"audio/",
			"video/",
			"application/zip",
			"application/gzip",
		},
	}
}

func (cfg GzipConfig) compressible(contentType string) bool {
	for _, prefix := range cfg.SkipContentTypes {
		if strings.HasPrefix(contentType, prefix) {
			return false
		}
	}
	return true
}

// Gzip returns a middleware that transparently inflates gzip request
// bodies and compresses responses for clients that accept gzip.
func Gzip(cfg GzipConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Header.Get("Content-Encoding") == "gzip" {
			if err := inflateRequestBody(c.Request); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
		}

		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gw := &gzipWriter{
			ResponseWriter: c.Writer,
			cfg:            cfg,
		}
		c.Writer = gw
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		gw.flush()
	}
}

// inflateRequestBody replaces a gzip-encoded request body with its
// decompressed form so handlers bind JSON as usual.
func inflateRequestBody(r *http.Request) error {
	reader, err := gzip.NewReader(r.Body)
	if err != nil {
		return err
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return nil
}

// gzipWriter buffers the response body so the compress-or-not decision
// can be made once the full size and content type are known.
type gzipWriter struct {
	gin.ResponseWriter
	cfg GzipConfig
	buf bytes.Buffer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	return g.buf.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.buf.WriteString(s)
}

// flush writes the buffered body, gzipped when it is large enough and
// the content type is compressible.
func (g *gzipWriter) flush() error {
	body := g.buf.Bytes()
	if len(body) < g.cfg.MinSize || !g.cfg.compressible(g.Header().Get("Content-Type")) {
		_, err := g.ResponseWriter.Write(body)
		return err
	}

	gz, err := gzip.NewWriterLevel(g.ResponseWriter, g.cfg.Level)
	if err != nil {
		return err
	}
	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Del("Content-Length")

	if _, err := gz.Write(body); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

func (g *gzipWriter) Flush() {
	g.ResponseWriter.Flush()
}

func (g *gzipWriter) CloseNotify() <-chan bool {
	return g.ResponseWriter.CloseNotify()
}

func (g *gzipWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return g.ResponseWriter.Hijack()
}
