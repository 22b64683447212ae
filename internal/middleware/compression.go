// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package middleware

import (
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// CompressionLevel is the gzip/deflate level used for responses.
const CompressionLevel = 5

// compressibleTypes are the content types worth compressing.
var compressibleTypes = []string{
	"application/json",
	"text/html",
	"text/css",
	"text/plain",
	"text/javascript",
	"application/javascript",
	"image/svg+xml",
}

// Compression compresses JSON and static text responses. Websocket
// upgrades bypass the compressor.
func Compression() func(http.Handler) http.Handler {
	compressor := chimw.NewCompressor(CompressionLevel, compressibleTypes...)
	return func(next http.Handler) http.Handler {
		compressed := compressor.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				next.ServeHTTP(w, r)
				return
			}
			compressed.ServeHTTP(w, r)
		})
	}
}
