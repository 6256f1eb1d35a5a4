package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"schedule-backend/internal/session"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore 프로세스 내 세션 저장소 (Redis 미설정 시)
//
// 직렬화된 사본을 보관하므로 호출자가 받은 세션을 수정해도 저장본은 바뀌지 않는다.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore MemoryStore 생성 (ttl <= 0 이면 만료 없음)
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) expiry() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}

// Get 세션 조회
func (m *MemoryStore) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || m.expired(e) {
		delete(m.entries, id)
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}

	var s session.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	e.expiresAt = m.expiry()
	m.entries[id] = e
	return &s, nil
}

// Put 세션 저장
func (m *MemoryStore) Put(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{data: data, expiresAt: m.expiry()}
	return nil
}

// Delete 세션 삭제
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	delete(m.entries, id)
	return nil
}

// Len 저장된 세션 수 (만료 포함)
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
