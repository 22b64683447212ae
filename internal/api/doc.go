// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package api serves the dashboard's HTTP surface on a chi router.

Routes:

	GET    /health                           liveness plus data API and database status
	GET    /metrics                          prometheus exposition
	POST   /api/login                        issue a session token and cookie
	POST   /api/logout                       revoke the current token
	GET    /api/session                      current user and expiry
	GET    /api/meta[?force_refresh=true]    tag metadata, cached
	GET    /api/tags[?q=&company=]           metadata grouped by company
	POST   /api/data                         time-series proxy to the data API
	POST   /api/dashboard/view               server-side widget view of a selection
	GET    /api/saved-selections             saved layouts, newest first
	POST   /api/saved-selections             save a layout
	GET    /api/saved-selections/{id}
	DELETE /api/saved-selections/{id}
	POST   /api/saved-selections/{id}/reorder
	GET    /api/tag-settings
	POST   /api/tag-settings                 upsert
	GET    /api/tag-settings/{tag}
	DELETE /api/tag-settings/{tag}           reset to defaults
	GET    /api/units
	POST   /api/units
	DELETE /api/units/{id}
	GET    /ws                               websocket event stream
	GET    /*                                static front end with SPA fallback

Every /api response uses the envelope in envelope.go. Everything under /api
except login passes authentication (internal/auth) and then authorization
(internal/authz, casbin). The per-IP limiter from go-chi/httprate covers all
of /api.
*/
package api
