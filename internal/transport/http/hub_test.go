package http

import (
	"encoding/json"
	"testing"
)

func TestHubDeliveryAndClose(t *testing.T) {
	hub := NewHub()
	alice := NewConnection("room-1", "lobby", "alice")
	bob := NewConnection("room-1", "lobby", "bob")
	other := NewConnection("room-2", "elsewhere", "carol")
	hub.Register(alice)
	hub.Register(bob)
	hub.Register(other)

	hub.DeliverToRoom("room-1", userEventMessage{Type: MsgUserJoined, Username: "bob"}, "bob")
	if got := drain(alice); len(got) != 1 || got[0]["username"] != "bob" {
		t.Fatalf("expected alice to get one message, got %v", got)
	}
	if got := drain(bob); len(got) != 0 {
		t.Fatalf("excluded user got %v", got)
	}

	hub.DeliverToUser("room-1", "bob", errorMessage{Type: MsgError, Message: "nope"})
	hub.DeliverToUser("room-1", "nobody", errorMessage{Type: MsgError, Message: "dropped"})
	if got := drain(bob); len(got) != 1 {
		t.Fatalf("expected one direct message, got %v", got)
	}

	hub.CloseRoom("room-1")
	if _, ok := <-alice.send; ok {
		t.Fatalf("expected alice channel closed")
	}
	if hub.Connected("room-1", "alice") {
		t.Fatalf("expected lobby connections removed")
	}
	if !hub.Connected("room-2", "carol") {
		t.Fatalf("other rooms must be untouched")
	}

	// Unregistering after the room closed must not double close.
	hub.Unregister(alice)
}

func TestHubRegisterReplacesStaleConnection(t *testing.T) {
	hub := NewHub()
	old := NewConnection("room-1", "lobby", "alice")
	hub.Register(old)
	fresh := NewConnection("room-1", "lobby", "alice")
	hub.Register(fresh)

	if _, ok := <-old.send; ok {
		t.Fatalf("expected stale connection closed")
	}
	hub.Unregister(old)
	if !hub.Connected("room-1", "alice") {
		t.Fatalf("unregistering a stale connection must keep the fresh one")
	}
}

func TestHubClosingEndedRoomKeepsReusedName(t *testing.T) {
	hub := NewHub()
	old := NewConnection("room-old", "lobby", "alice")
	hub.Register(old)
	fresh := NewConnection("room-new", "lobby", "zed")
	hub.Register(fresh)

	hub.DeliverToRoom("room-old", roomEndedMessage{Type: MsgRoomEnded, Reason: "creator-ended"}, "")
	hub.CloseRoom("room-old")

	if got := drain(fresh); len(got) != 0 {
		t.Fatalf("connection of the new room got %v", got)
	}
	if !hub.Connected("room-new", "zed") {
		t.Fatalf("connection of the new room must stay registered")
	}
	if _, ok := <-old.send; !ok {
		t.Fatalf("expected the ended room to get its RoomEnded before closing")
	}
	if _, ok := <-old.send; ok {
		t.Fatalf("expected old connection closed")
	}
}

func drain(conn *Connection) []map[string]any {
	var out []map[string]any
	for {
		select {
		case data := <-conn.send:
			var msg map[string]any
			_ = json.Unmarshal(data, &msg)
			out = append(out, msg)
		default:
			return out
		}
	}
}
