// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package middleware provides the HTTP middleware shared by every route.

All middleware uses the func(http.Handler) http.Handler shape so it can be
mounted with chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecurityHeaders(isProduction))
	r.Use(middleware.Compression())

RequestID must come first: the access log and the metrics writer read the
request id from the context it populates.

Components:

  - RequestID: honours an inbound X-Request-ID or generates a UUID
  - AccessLog: one zerolog line per request with status and duration
  - PrometheusMetrics: request counter, latency histogram and in-flight gauge
    keyed by the chi route pattern
  - SecurityHeaders: the headers a browser dashboard needs, HSTS in production
  - Compression: chi's gzip/deflate compressor, skipped for websocket upgrades

The response writer wrapper used by AccessLog and PrometheusMetrics passes
http.Hijacker and http.Flusher through, so /ws upgrades still work behind it.
*/
package middleware
