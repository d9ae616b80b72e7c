// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package websocket

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/WarpSpeedNine/CosmiCam/internal/events"
	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// startHub runs the hub loop and tears it down with the test.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// fakeClient builds a client with no underlying connection; only the
// send channel matters for hub routing.
func fakeClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan Message, 16)}
}

func registerClient(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	select {
	case hub.register <- client:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept registration")
	}
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub.clients == nil || hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Fatal("hub channels not initialized")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount = %d, want 0", hub.ClientCount())
	}
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := startHub(t)
	client := fakeClient(hub)
	registerClient(t, hub, client)

	hub.Broadcast(Message{Type: MessageTypeImageCaptured, Data: map[string]any{"path": "/images/a.jpg"}})

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeImageCaptured {
			t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeImageCaptured)
		}
	case <-time.After(time.Second):
		t.Fatal("client never received broadcast")
	}
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := startHub(t)

	// Must not block or panic with nobody listening.
	hub.Broadcast(Message{Type: MessageTypeProfileChanged})
	hub.Broadcast(Message{Type: MessageTypeQuotaEnforced})
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	client := fakeClient(hub)
	registerClient(t, hub, client)

	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected send channel closed, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount = %d after unregister, want 0", hub.ClientCount())
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Serve(ctx)
		close(done)
	}()

	client := fakeClient(hub)
	hub.register <- client
	for hub.ClientCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	cancel()
	<-done

	if _, ok := <-client.send; ok {
		t.Fatal("expected send channel closed on shutdown")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount = %d after shutdown, want 0", hub.ClientCount())
	}
}

func TestForwarderRelaysBusEvents(t *testing.T) {
	hub := startHub(t)
	client := fakeClient(hub)
	registerClient(t, hub, client)

	bus := events.NewBus(logging.NewWatermillAdapter())
	defer bus.Close()

	fwd := NewForwarder(bus, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fwdDone := make(chan struct{})
	go func() {
		_ = fwd.Serve(ctx)
		close(fwdDone)
	}()
	// Give subscriptions a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	err := bus.Publish(events.TopicProfileChanged, events.ProfileChanged{
		Previous:  "default",
		Current:   "night",
		SunPhase:  "night",
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeProfileChanged {
			t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeProfileChanged)
		}
		data, ok := msg.Data.(map[string]any)
		if !ok {
			t.Fatalf("message data is %T, want map", msg.Data)
		}
		if data["current"] != "night" {
			t.Fatalf("current profile = %v, want night", data["current"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client never received forwarded event")
	}

	cancel()
	<-fwdDone
}
