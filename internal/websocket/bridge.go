// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package websocket

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/dcsdash/internal/events"
	"github.com/tomtom215/dcsdash/internal/logging"
)

// Subscriber is the subscribe side of the event bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Broadcaster receives forwarded events.
type Broadcaster interface {
	Broadcast(messageType string, data any)
}

// Bridge forwards bus events to the hub.
type Bridge struct {
	sub    Subscriber
	hub    Broadcaster
	topics []string
}

// NewBridge creates a Bridge for topics, or for events.AllTopics when
// none are given.
func NewBridge(sub Subscriber, hub Broadcaster, topics ...string) *Bridge {
	if len(topics) == 0 {
		topics = events.AllTopics
	}
	return &Bridge{sub: sub, hub: hub, topics: topics}
}

// String names the bridge in supervisor logs.
func (b *Bridge) String() string {
	return "websocket-bridge"
}

// Serve subscribes to every topic and forwards until ctx is done.
func (b *Bridge) Serve(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	channels := make([]<-chan *message.Message, 0, len(b.topics))
	for _, topic := range b.topics {
		ch, err := b.sub.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("bridge subscribe: %w", err)
		}
		channels = append(channels, ch)
	}

	var wg sync.WaitGroup
	for _, ch := range channels {
		wg.Add(1)
		go func(ch <-chan *message.Message) {
			defer wg.Done()
			defer cancel()
			b.forward(ctx, ch)
		}(ch)
	}
	wg.Wait()

	if err := parent.Err(); err != nil {
		return err
	}
	return fmt.Errorf("bridge subscriptions closed")
}

// forward returns when ctx is done or ch closes. A closed channel cancels
// the other subscriptions so Serve returns and the supervisor restarts it.
func (b *Bridge) forward(ctx context.Context, ch <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			ev, err := events.Decode(msg)
			msg.Ack()
			if err != nil {
				logging.Warn().Err(err).Msg("dropping undecodable event")
				continue
			}
			b.hub.Broadcast(ev.Type, json.RawMessage(ev.Data))
		}
	}
}
