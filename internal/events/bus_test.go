// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package events

import (
	"context"
	"testing"
	"time"

	"github.com/WarpSpeedNine/CosmiCam/internal/sunphase"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, TopicProfileChanged)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	want := ProfileChanged{
		Previous:  "day",
		Current:   "night",
		SunPhase:  sunphase.PhaseNight,
		Timestamp: time.Now().UTC(),
	}
	if err := bus.Publish(TopicProfileChanged, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-ch:
		var got ProfileChanged
		if err := DeserializeEvent(msg.Payload, &got); err != nil {
			t.Fatalf("deserialize: %v", err)
		}
		if got.Previous != "day" || got.Current != "night" || got.SunPhase != sunphase.PhaseNight {
			t.Errorf("event = %+v", got)
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = bus.Publish(TopicImageCaptured, ImageCaptured{Path: "x.jpg"})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(nil)
	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := bus.Publish(TopicQuotaEnforced, QuotaEnforced{}); err == nil {
		t.Error("publish after close succeeded, want error")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(TopicImageCaptured, struct{ Broken chan int }{}); err != nil {
		t.Errorf("nop publish = %v, want nil", err)
	}
}
