package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
)

// Compression middleware with gzip support
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(w)
		defer gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length") // Let gzip set the correct length

		gzw := &gzipResponseWriter{
			ResponseWriter: w,
			Writer:         gz,
		}

		next.ServeHTTP(gzw, r)
	})
}

// Pool of gzip writers to reduce allocations
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		// Level 5 balances speed and compression ratio
		gz, _ := gzip.NewWriterLevel(io.Discard, 5)
		return gz
	},
}

// gzipResponseWriter wraps http.ResponseWriter to compress the response
type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("ResponseWriter does not support Hijack")
}

// ETag middleware for conditional requests (304 Not Modified)
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &etagResponseRecorder{
			ResponseWriter: w,
			buffer:         &bytes.Buffer{},
		}

		next.ServeHTTP(rec, r)

		if rec.statusCode == 0 || rec.statusCode == http.StatusOK {
			hash := sha256.Sum256(rec.buffer.Bytes())
			etag := `"` + hex.EncodeToString(hash[:16]) + `"`

			if r.Header.Get("If-None-Match") == etag {
				w.Header().Set("ETag", etag)
				w.WriteHeader(http.StatusNotModified)
				return
			}

			w.Header().Set("ETag", etag)
			w.Header().Set("Cache-Control", "private, must-revalidate")
			if rec.statusCode > 0 {
				w.WriteHeader(rec.statusCode)
			}
			w.Write(rec.buffer.Bytes())
		} else {
			if rec.statusCode > 0 {
				w.WriteHeader(rec.statusCode)
			}
			w.Write(rec.buffer.Bytes())
		}
	})
}

// etagResponseRecorder captures the response for ETag generation
type etagResponseRecorder struct {
	http.ResponseWriter
	buffer     *bytes.Buffer
	statusCode int
}

func (r *etagResponseRecorder) Write(b []byte) (int, error) {
	return r.buffer.Write(b)
}

func (r *etagResponseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
}

// CacheControl middleware adds cache headers based on path patterns
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case strings.Contains(path, "/engagement"):
			// Per-user state must never be shared
			w.Header().Set("Cache-Control", "private, no-cache, must-revalidate")
		case path == "/api/feed":
			// Aggregated feed: short-lived, location dependent
			w.Header().Set("Cache-Control", "public, max-age=120, must-revalidate")
		case strings.HasPrefix(path, "/api/places/") && r.Method == http.MethodGet:
			// Place details and review lists: cache for 5 minutes
			w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "private, no-cache, must-revalidate")
		}

		next.ServeHTTP(w, r)
	})
}

// ResponseOptimization combines compression, ETag, and cache control
func ResponseOptimization(next http.Handler) http.Handler {
	return CacheControl(ETag(Compression(next)))
}
