package handler

import (
	"encoding/json"
	"testing"
	"time"

	"schedule-backend/internal/board"
	"schedule-backend/internal/model"
	"schedule-backend/internal/session"
)

func TestEnqueueKeepsNewest(t *testing.T) {
	client := newBoardClient(nil)

	for i := 0; i < clientSendBuffer*3; i++ {
		if !client.enqueue([]byte{byte(i)}) {
			t.Fatalf("enqueue(%d) rejected on an open client", i)
		}
	}
	if got := len(client.send); got != clientSendBuffer {
		t.Fatalf("queued = %d, want %d", got, clientSendBuffer)
	}

	var last []byte
	for len(client.send) > 0 {
		last = <-client.send
	}
	if want := byte(clientSendBuffer*3 - 1); last[0] != want {
		t.Errorf("last queued message = %d, want %d", last[0], want)
	}

	close(client.done)
	if client.enqueue([]byte("late")) {
		t.Error("enqueue after close should report false")
	}
}

func TestBroadcastDoesNotBlockOnStalledClient(t *testing.T) {
	h := NewBoardWSHandler(session.NewManager(nil), time.Second)

	// writePump 없이 등록된 클라이언트 (읽지 않는 뷰어)
	stalled := newBoardClient(nil)
	h.clients["board-1"] = map[*boardClient]bool{stalled: true}

	b, err := board.Build(nil, model.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	s := &session.Session{ID: "board-1", Board: b}

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientSendBuffer*4; i++ {
			h.Broadcast(s)
		}
		h.Closed("board-1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a client that never reads")
	}

	if h.Connections("board-1") != 1 {
		t.Errorf("connections = %d, want 1", h.Connections("board-1"))
	}

	var last BoardWSMessage
	for len(stalled.send) > 0 {
		if err := json.Unmarshal(<-stalled.send, &last); err != nil {
			t.Fatal(err)
		}
	}
	if last.Type != "deleted" {
		t.Errorf("newest queued message = %q, want deleted", last.Type)
	}
}
