// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
Package ordering models the order of dashboard widgets.

A Selection is the single source of truth for widget order. Every mutation
is a permutation of the current tags and never introduces duplicates.
Pointer reordering goes through a DragSession, which recomputes the
insertion anchor from widget geometry on every move, and touch reordering
goes through a Gesture, a press-and-hold state machine driven by an
injectable Clock.

Saved layouts are reordered server-side through the same types:

	sel := ordering.New(layout.TagNames...)
	if err := sel.MoveTo("kepco_power_01", "posco_temp_02"); err != nil {
		return err
	}
	layout.TagNames = sel.Tags()
*/
package ordering
