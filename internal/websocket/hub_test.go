// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"
)

// startHub runs the hub loop and returns a cancel plus the loop's exit
// channel.
func startHub(t *testing.T) (*Hub, context.CancelFunc, chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub, _, _ := startHub(t)

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeRunCompleted, map[string]string{"discipline": "road"})

	for _, client := range []*Client{a, b} {
		select {
		case msg := <-client.send:
			if msg.Type != MessageTypeRunCompleted {
				t.Errorf("message type = %q, want %q", msg.Type, MessageTypeRunCompleted)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("client %d received nothing", client.ID())
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub, _, _ := startHub(t)

	c := NewClient(hub, nil)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.Unregister <- c
	waitForClients(t, hub, 0)

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("send channel still open after unregister")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed after unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, _, _ := startHub(t)

	// An unbuffered queue with no reader models a stalled client.
	slow := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message)}
	healthy := NewClient(hub, nil)
	hub.Register <- slow
	hub.Register <- healthy
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeRunCompleted, nil)

	waitForClients(t, hub, 1)
	select {
	case msg := <-healthy.send:
		if msg.Type != MessageTypeRunCompleted {
			t.Errorf("message type = %q, want %q", msg.Type, MessageTypeRunCompleted)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("healthy client starved by slow one")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, cancel, done := startHub(t)

	c := NewClient(hub, nil)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub loop did not exit on cancel")
	}

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("send channel still open after shutdown")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed on shutdown")
	}
	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("client count after shutdown = %d, want 0", got)
	}
}

func TestBroadcastRunCompletedShape(t *testing.T) {
	hub, _, _ := startHub(t)

	c := NewClient(hub, nil)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.BroadcastRunCompleted("cyclocross", 42, 1500)

	select {
	case msg := <-c.send:
		if msg.Type != MessageTypeRunCompleted {
			t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeRunCompleted)
		}
		data, ok := msg.Data.(RunCompletedData)
		if !ok {
			t.Fatalf("payload type = %T, want RunCompletedData", msg.Data)
		}
		if data.Discipline != "cyclocross" || data.PointsCreated != 42 || data.RunDurationMs != 1500 {
			t.Errorf("payload = %+v", data)
		}
		if data.Timestamp == "" {
			t.Error("payload missing timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no run_completed message delivered")
	}
}
