// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

/*
Package websocket pushes live service events to connected clients.

The package follows a hub-and-spoke layout on gorilla/websocket: a
single Hub owns the client set and fans broadcast messages out, each
Client runs a read pump and a write pump goroutine over its
connection, and a Forwarder bridges the in-process event bus onto the
hub.

# Message types

	profile_changed - the active capture profile switched
	image_captured  - a capture cycle completed
	quota_enforced  - the disk quota enforcer deleted artifacts
	ping / pong     - client keepalive

Every frame is a JSON object with "type" and "data" fields; the data
payload mirrors the corresponding bus event.

# Delivery semantics

Events are advisory. The hub never blocks a publisher: a full
broadcast queue drops the message, and a client whose send buffer is
full misses it. Dead connections are detected by the ping/pong cycle
and unregistered by their read pump.

Hub and Forwarder both implement suture.Service and run under the
supervision tree; shutting the tree down closes every client.
*/
package websocket
