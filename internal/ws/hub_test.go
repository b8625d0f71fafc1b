package ws

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	convID := uuid.New()

	hub.AddClient(convID, nil, ConnInfo{ConnID: "c1"})
	if len(hub.rooms) != 1 {
		t.Fatalf("expected room to be created")
	}
	if len(hub.connInfo[convID]) != 1 {
		t.Fatalf("expected connection info to be tracked")
	}
	if len(hub.writeLocks) != 1 {
		t.Fatalf("expected write lock to be tracked")
	}

	hub.RemoveClient(convID, nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected room to be removed")
	}
	if len(hub.connInfo) != 0 {
		t.Fatalf("expected connection info to be removed")
	}
	if len(hub.writeLocks) != 0 {
		t.Fatalf("expected write lock to be removed")
	}
}

func TestHubRoomsAreIndependent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	convA := uuid.New()
	convB := uuid.New()

	hub.AddClient(convA, nil, ConnInfo{ConnID: "a"})
	hub.AddClient(convB, nil, ConnInfo{ConnID: "b"})
	if len(hub.rooms) != 2 {
		t.Fatalf("expected two rooms")
	}

	hub.RemoveClient(convA, nil)
	if len(hub.rooms) != 1 {
		t.Fatalf("expected one room to survive")
	}
	if _, ok := hub.rooms[convB]; !ok {
		t.Fatalf("expected untouched room to survive")
	}
}
