// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package services adapts dashboard components to suture.Service.

HTTPServerService binds the listener itself, so a port conflict is reported
as a service failure that the supervisor retries with backoff. The bound
address is available from Addr once serving, which tests use with ":0".

FuncService names a plain func(ctx) error. NewHubService wraps the
websocket hub's RunWithContext with it. Components that already implement
Serve and String, such as the websocket bridge and the revocation store GC
loop, are added to the tree directly.
*/
package services
