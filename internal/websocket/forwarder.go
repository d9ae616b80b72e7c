// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package websocket

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/events"
	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
)

// topicMessageTypes maps bus topics to websocket message types.
var topicMessageTypes = map[string]string{
	events.TopicProfileChanged: MessageTypeProfileChanged,
	events.TopicImageCaptured:  MessageTypeImageCaptured,
	events.TopicQuotaEnforced:  MessageTypeQuotaEnforced,
}

// Forwarder subscribes to the event bus and rebroadcasts every event
// to websocket clients. It implements suture.Service.
type Forwarder struct {
	bus    *events.Bus
	hub    *Hub
	logger zerolog.Logger
}

// NewForwarder creates a Forwarder from bus to hub.
func NewForwarder(bus *events.Bus, hub *Hub) *Forwarder {
	return &Forwarder{
		bus:    bus,
		hub:    hub,
		logger: logging.With().Str("component", "ws_forwarder").Logger(),
	}
}

// Serve subscribes to every mapped topic and forwards until ctx is
// cancelled.
func (f *Forwarder) Serve(ctx context.Context) error {
	for topic, msgType := range topicMessageTypes {
		ch, err := f.bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go func(msgType string, ch <-chan *message.Message) {
			for msg := range ch {
				var data any
				if err := json.Unmarshal(msg.Payload, &data); err != nil {
					f.logger.Warn().Err(err).Str("type", msgType).Msg("undecodable event payload")
					msg.Ack()
					continue
				}
				f.hub.Broadcast(Message{Type: msgType, Data: data})
				msg.Ack()
			}
		}(msgType, ch)
	}

	<-ctx.Done()
	return ctx.Err()
}

// String names the service for supervisor logs.
func (f *Forwarder) String() string { return "websocket-forwarder" }
