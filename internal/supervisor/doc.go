// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package supervisor runs the long-lived parts of the dashboard under a suture v4
supervisor tree.

	root ("dcsdash")
	├── storage ("storage-layer")
	│   └── revocation-gc        badger value-log GC for revoked token ids
	├── realtime ("realtime-layer")
	│   ├── websocket-hub        client registry and broadcast loop
	│   └── websocket-bridge     watermill subscriptions forwarded to the hub
	└── api ("api-layer")
	    └── http-server          chi router behind net/http

Each layer restarts its own services with backoff, so a failing bridge does
not take the HTTP server down with it. Supervisor events are logged through
sutureslog on top of the zerolog-backed slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.Add(supervisor.LayerRealtime, services.NewHubService(hub))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(srv, cfg.Server.Addr(), 10*time.Second))
	return tree.Serve(ctx)

Shutdown is driven by cancelling the context passed to Serve. Services that
miss the shutdown timeout are listed by UnstoppedServiceReport.
*/
package supervisor
