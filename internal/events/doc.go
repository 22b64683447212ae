// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package events carries in-process notifications between the API and the
realtime hub.

The bus is a Watermill GoChannel pub/sub. Handlers publish after a
successful write; the websocket bridge subscribes to every topic and
fans the envelopes out to connected browsers.

Topics:

  - metadata_refreshed: the tag list was fetched from the data API
  - tag_settings_changed: a tag setting was saved or reset
  - layout_changed: a saved selection was created, reordered or deleted

Every message payload is a JSON Event envelope:

	{"type": "layout_changed", "data": {...}, "at": "2026-01-02T03:04:05Z"}
*/
package events
