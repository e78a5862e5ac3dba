package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	encodingBrotli = "br"
	encodingGzip   = "gzip"
)

var compressibleTypes = []string{
	"application/json",
	"text/plain",
	"text/html",
}

// bufferedWriter holds the body back until the handler chain finishes so the
// middleware can decide on the encoding once the size is known.
type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *bufferedWriter) Written() bool {
	return w.buf.Len() > 0 || w.ResponseWriter.Written()
}

// Compression encodes response bodies with brotli or gzip, preferring brotli
func (m *Middleware) Compression() gin.HandlerFunc {
	minSize := m.config.Server.CompressMin

	return func(c *gin.Context) {
		if minSize <= 0 || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		encoding := negotiateEncoding(c.GetHeader("Accept-Encoding"))
		if encoding == "" {
			c.Next()
			return
		}

		orig := c.Writer
		bw := &bufferedWriter{ResponseWriter: orig}
		c.Writer = bw
		defer func() { c.Writer = orig }()

		c.Next()

		body := bw.buf.Bytes()
		header := orig.Header()
		header.Add("Vary", "Accept-Encoding")
		if len(body) < minSize || header.Get("Content-Encoding") != "" || !isCompressible(header.Get("Content-Type")) {
			if len(body) > 0 {
				_, _ = orig.Write(body)
			}
			return
		}

		header.Set("Content-Encoding", encoding)
		header.Del("Content-Length")

		enc := newEncoder(encoding, orig)
		if _, err := enc.Write(body); err != nil {
			m.logger.Debug("Compressed write failed", zap.String("encoding", encoding), zap.Error(err))
		}
		if err := enc.Close(); err != nil {
			m.logger.Debug("Compressed flush failed", zap.String("encoding", encoding), zap.Error(err))
		}
	}
}

func newEncoder(encoding string, w io.Writer) io.WriteCloser {
	if encoding == encodingBrotli {
		return brotli.NewWriterLevel(w, brotli.DefaultCompression)
	}
	return gzip.NewWriter(w)
}

// negotiateEncoding picks br over gzip among the codings the client accepts
// with a non-zero quality.
func negotiateEncoding(header string) string {
	if header == "" {
		return ""
	}

	accepted := make(map[string]float64)
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		quality := 1.0
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil {
				quality = v
			}
		}
		accepted[strings.ToLower(strings.TrimSpace(name))] = quality
	}

	for _, enc := range []string{encodingBrotli, encodingGzip} {
		if accepted[enc] > 0 {
			return enc
		}
	}
	if _, listed := accepted[encodingGzip]; !listed && accepted["*"] > 0 {
		return encodingGzip
	}
	return ""
}

func isCompressible(contentType string) bool {
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}
