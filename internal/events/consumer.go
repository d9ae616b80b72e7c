// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
)

// LogConsumer subscribes to every bus topic and writes each event to
// the structured log. It implements suture.Service.
type LogConsumer struct {
	bus    *Bus
	logger zerolog.Logger
}

// NewLogConsumer creates a LogConsumer for bus.
func NewLogConsumer(bus *Bus) *LogConsumer {
	return &LogConsumer{
		bus:    bus,
		logger: logging.With().Str("component", "event_log").Logger(),
	}
}

// Serve subscribes to all topics and logs messages until ctx is
// cancelled or the bus closes.
func (c *LogConsumer) Serve(ctx context.Context) error {
	topics := []string{TopicProfileChanged, TopicImageCaptured, TopicQuotaEnforced}

	channels := make([]<-chan *message.Message, 0, len(topics))
	for _, topic := range topics {
		ch, err := c.bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		channels = append(channels, ch)
	}

	for i, ch := range channels {
		go c.drain(topics[i], ch)
	}

	<-ctx.Done()
	return ctx.Err()
}

func (c *LogConsumer) drain(topic string, ch <-chan *message.Message) {
	for msg := range ch {
		c.logger.Info().
			Str("topic", topic).
			RawJSON("event", msg.Payload).
			Msg("event")
		msg.Ack()
	}
}

// String names the service for supervisor logs.
func (c *LogConsumer) String() string { return "event-log-consumer" }
