// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package ordering

import (
	"math"
	"strings"
	"sync"
	"time"
)

const (
	// HoldDuration is how long a press must last before the widget arms.
	HoldDuration = 500 * time.Millisecond

	// MoveThreshold is the pointer travel, per axis, that aborts a press.
	MoveThreshold = 10.0
)

// Timer is the subset of *time.Timer a Gesture needs.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by the time package.
var RealClock Clock = realClock{}

// GestureState is the press-and-hold state.
type GestureState int

const (
	GestureIdle GestureState = iota
	GesturePressing
	GestureArmed
)

func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GesturePressing:
		return "pressing"
	case GestureArmed:
		return "armed"
	default:
		return "unknown"
	}
}

// Gesture implements touch reordering: hold a widget to arm it, then tap
// another widget to move the armed one onto it.
//
// Every press bumps a generation counter. A timer callback only arms when
// its generation is still current, so a timer that fires after Release,
// Move or a newer Press is a no-op even if Stop lost the race.
type Gesture struct {
	mu     sync.Mutex
	sel    *Selection
	clock  Clock
	onArm  func(tag string)
	timer  Timer
	gen    uint64
	state  GestureState
	tag    string
	startX float64
	startY float64
}

// NewGesture creates a gesture over sel. A nil clock uses RealClock.
func NewGesture(sel *Selection, clock Clock) *Gesture {
	if clock == nil {
		clock = RealClock
	}
	return &Gesture{sel: sel, clock: clock}
}

// OnArm registers a callback run, without the lock held, when a widget arms.
func (g *Gesture) OnArm(fn func(tag string)) {
	g.mu.Lock()
	g.onArm = fn
	g.mu.Unlock()
}

// Press starts the hold timer for tag at pointer position (x, y). A press
// while armed clears the armed state first.
func (g *Gesture) Press(tag string, x, y float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.sel.Contains(tag) {
		return ErrUnknownTag
	}
	g.resetLocked()

	g.gen++
	gen := g.gen
	g.state = GesturePressing
	g.tag = tag
	g.startX, g.startY = x, y
	g.timer = g.clock.AfterFunc(HoldDuration, func() { g.fire(gen) })
	return nil
}

// Move aborts a pending press once the pointer travels past MoveThreshold
// on either axis.
func (g *Gesture) Move(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GesturePressing {
		return
	}
	if math.Abs(x-g.startX) > MoveThreshold || math.Abs(y-g.startY) > MoveThreshold {
		g.resetLocked()
	}
}

// Release ends the press. Releasing before the timer fires cancels it;
// an armed widget stays armed until a tap.
func (g *Gesture) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GesturePressing {
		g.resetLocked()
	}
}

// Tap handles a tap while armed. Tapping the armed widget cancels, tapping
// an unknown tag is ignored, and tapping any other selected tag moves the
// armed one onto it. It reports whether the order changed.
func (g *Gesture) Tap(tag string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GestureArmed {
		return false, nil
	}
	if strings.EqualFold(tag, g.tag) {
		g.resetLocked()
		return false, nil
	}
	if !g.sel.Contains(tag) {
		return false, nil
	}

	err := g.sel.MoveTo(g.tag, tag)
	g.resetLocked()
	if err != nil {
		return false, err
	}
	return true, nil
}

// Cancel clears any pending or armed state.
func (g *Gesture) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

// Targets lists the valid drop targets while armed: every other tag.
func (g *Gesture) Targets() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GestureArmed {
		return nil
	}
	out := make([]string, 0, g.sel.Len())
	for _, t := range g.sel.Tags() {
		if !strings.EqualFold(t, g.tag) {
			out = append(out, t)
		}
	}
	return out
}

// State returns the current state and the pressed or armed tag.
func (g *Gesture) State() (GestureState, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.tag
}

func (g *Gesture) fire(gen uint64) {
	g.mu.Lock()
	if gen != g.gen || g.state != GesturePressing {
		g.mu.Unlock()
		return
	}
	g.state = GestureArmed
	g.timer = nil
	tag, cb := g.tag, g.onArm
	g.mu.Unlock()

	if cb != nil {
		cb(tag)
	}
}

// resetLocked stops a pending timer and returns to idle. The generation
// bump invalidates a callback already in flight.
func (g *Gesture) resetLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.gen++
	g.state = GestureIdle
	g.tag = ""
}
