package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// compressMiddleware compresses dashboard responses when the client asks
// for it. Timeline and growth payloads are large JSON arrays that compress
// well. Supports zstd and brotli; falls through uncompressed otherwise.
func compressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accepted := r.Header.Get("Accept-Encoding")

		switch {
		case strings.Contains(accepted, "zstd"):
			enc, err := zstd.NewWriter(w)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			defer enc.Close()
			w.Header().Set("Content-Encoding", "zstd")
			next.ServeHTTP(&compressedWriter{ResponseWriter: w, writer: enc}, r)

		case strings.Contains(accepted, "br"):
			enc := brotli.NewWriter(w)
			defer enc.Close()
			w.Header().Set("Content-Encoding", "br")
			next.ServeHTTP(&compressedWriter{ResponseWriter: w, writer: enc}, r)

		default:
			next.ServeHTTP(w, r)
		}
	})
}

// compressedWriter routes the body through the encoder while headers and
// status go straight to the underlying ResponseWriter.
type compressedWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (cw *compressedWriter) Write(b []byte) (int, error) {
	return cw.writer.Write(b)
}

// WriteHeader drops Content-Length; the compressed size differs.
func (cw *compressedWriter) WriteHeader(status int) {
	cw.Header().Del("Content-Length")
	cw.ResponseWriter.WriteHeader(status)
}
