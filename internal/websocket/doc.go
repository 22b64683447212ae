// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package websocket pushes change notifications to connected dashboards.

The Hub owns the client set and fans each Message out to every client.
Clients run a read pump (ping/pong and close detection) and a write pump
(JSON frames plus keepalive pings). A Client whose send buffer is full is
dropped instead of blocking the hub.

Bridge subscribes to the internal event bus and forwards every event as a
Message whose Type is the event topic:

	{"type": "tag_settings_changed", "data": {"tag_name": "kepco_power_01"}}

Both Hub.RunWithContext and Bridge.Serve block until their context is
canceled, so they run as supervised services.
*/
package websocket
