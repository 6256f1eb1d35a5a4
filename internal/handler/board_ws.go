package handler

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"schedule-backend/internal/session"
)

// BoardWSHandler 보드 변경 스트림 WebSocket 핸들러
type BoardWSHandler struct {
	sessions     *session.Manager
	clients      map[string]map[*boardClient]bool // sessionID -> connections
	mu           sync.RWMutex
	writeTimeout time.Duration
}

// clientSendBuffer 연결별 대기 메시지 수 (가득 차면 가장 오래된 메시지를 버린다)
const clientSendBuffer = 16

// boardClient 연결별 송신 큐 (쓰기는 writePump 고루틴만 수행)
type boardClient struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	stopped chan struct{}
}

func newBoardClient(conn *websocket.Conn) *boardClient {
	return &boardClient{
		conn: conn,
		send:    make(chan []byte, clientSendBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// enqueue 논블로킹 전송 예약 (보드 메시지는 전체 스냅샷이라 최신 것만 있으면 된다)
func (c *boardClient) enqueue(msg []byte) bool {
	for {
		select {
		case <-c.done:
			return false
		case c.send <- msg:
			return true
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

// writePump 큐에 쌓인 메시지를 순서대로 전송, 실패하면 연결을 닫는다
func (c *boardClient) writePump(sessionID string, timeout time.Duration) {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if timeout > 0 {
				c.conn.SetWriteDeadline(time.Now().Add(timeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[BoardWS] 전송 실패: board=%s, err=%v", sessionID, err)
				c.conn.Close()
				return
			}
		}
	}
}

// BoardWSMessage 보드 WebSocket 메시지
type BoardWSMessage struct {
	Type    string      `json:"type"` // board, deleted, ping, pong, error
	Payload interface{} `json:"payload,omitempty"`
}

// NewBoardWSHandler BoardWSHandler 생성 후 세션 변경 리스너 등록
func NewBoardWSHandler(sessions *session.Manager, writeTimeout time.Duration) *BoardWSHandler {
	h := &BoardWSHandler{
		sessions:     sessions,
		clients:      make(map[string]map[*boardClient]bool),
		writeTimeout: writeTimeout,
	}
	sessions.OnChange(h.Broadcast)
	sessions.OnDelete(h.Closed)
	return h
}

// HandleWebSocket WebSocket 연결 처리
func (h *BoardWSHandler) HandleWebSocket(c *websocket.Conn) {
	// 패닉 복구 - 서버 크래시 방지
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[BoardWS] 패닉 복구: %v", r)
		}
	}()

	sessionID := c.Params("id")
	client := newBoardClient(c)

	// 등록과 스냅샷 적재를 한 번에 해야 이후 브로드캐스트가 스냅샷 뒤에 쌓인다
	h.mu.Lock()
	s, err := h.sessions.Get(context.Background(), sessionID)
	if err != nil {
		h.mu.Unlock()
		c.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","payload":"board not found"}`))
		c.Close()
		return
	}
	if msg, err := json.Marshal(BoardWSMessage{Type: "board", Payload: s.Board}); err == nil {
		client.enqueue(msg)
	}
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*boardClient]bool)
	}
	h.clients[sessionID][client] = true
	h.mu.Unlock()

	go client.writePump(sessionID, h.writeTimeout)
	log.Printf("[BoardWS] 연결: board=%s", sessionID)

	// 연결 해제 시 정리 (writePump 종료까지 기다린 뒤 반환)
	defer func() {
		h.mu.Lock()
		delete(h.clients[sessionID], client)
		if len(h.clients[sessionID]) == 0 {
			delete(h.clients, sessionID)
		}
		h.mu.Unlock()
		close(client.done)
		c.Close()
		<-client.stopped
		log.Printf("[BoardWS] 연결 해제: board=%s", sessionID)
	}()

	pong, _ := json.Marshal(BoardWSMessage{Type: "pong"})
	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			break
		}

		var msg BoardWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			continue
		}

		if msg.Type == "ping" {
			client.enqueue(pong)
		}
	}
}

// Broadcast 세션 구독자에게 현재 보드 전송
func (h *BoardWSHandler) Broadcast(s *session.Session) {
	h.send(s.ID, BoardWSMessage{Type: "board", Payload: s.Board})
}

// Closed 세션 삭제 알림
func (h *BoardWSHandler) Closed(sessionID string) {
	h.send(sessionID, BoardWSMessage{Type: "deleted"})
}

func (h *BoardWSHandler) send(sessionID string, msg BoardWSMessage) {
	h.mu.RLock()
	targets := make([]*boardClient, 0, len(h.clients[sessionID]))
	for client := range h.clients[sessionID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[BoardWS] 직렬화 실패: %v", err)
		return
	}

	for _, client := range targets {
		client.enqueue(msgBytes)
	}
}

// Connections 세션별 연결 수
func (h *BoardWSHandler) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
