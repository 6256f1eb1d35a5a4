package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"schedule-backend/internal/board"
)

var ErrSessionNotFound = errors.New("session not found")

// Session 편집 세션 (저장소에서 체크아웃한 작업 사본)
type Session struct {
	ID         string       `json:"id"`
	Board      *board.Board `json:"board"`
	ScheduleID string       `json:"scheduleId,omitempty"` // 마지막으로 불러오거나 저장한 시간표
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Store 세션 저장소
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Listener 세션 변경 알림
type Listener func(s *Session)

// Manager 세션 생성/조회/변경 관리 (세션별 직렬화)
type Manager struct {
	store    Store
	locks    sync.Map // id -> *sync.Mutex
	mu       sync.RWMutex
	onChange []Listener
	onDelete []func(id string)
}

// NewManager Manager 생성
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// OnChange 변경 리스너 등록
func (m *Manager) OnChange(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, l)
}

// OnDelete 삭제 리스너 등록
func (m *Manager) OnDelete(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDelete = append(m.onDelete, fn)
}

func (m *Manager) notify(s *Session) {
	m.mu.RLock()
	listeners := m.onChange
	m.mu.RUnlock()
	for _, l := range listeners {
		l(s)
	}
}

func (m *Manager) lock(id string) *sync.Mutex {
	v, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Create 새 세션 생성 (scheduleID는 불러온 시간표, 없으면 빈 문자열)
func (m *Manager) Create(ctx context.Context, b *board.Board, scheduleID string) (*Session, error) {
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		Board:      b,
		ScheduleID: scheduleID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	log.Printf("[Session] Created %s (%d nodes)", s.ID, len(b.Nodes))
	return s, nil
}

// Get 세션 조회
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Delete 세션 삭제
func (m *Manager) Delete(ctx context.Context, id string) error {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.locks.Delete(id)
	log.Printf("[Session] Deleted %s", id)

	m.mu.RLock()
	listeners := m.onDelete
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(id)
	}
	return nil
}

// Mutate 세션 잠금 후 변경 적용 및 저장
//
// fn이 에러를 반환하면 저장하지 않는다.
func (m *Manager) Mutate(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		// 없는 ID나 TTL로 만료된 세션의 잠금은 남기지 않는다
		if errors.Is(err, ErrSessionNotFound) {
			m.locks.CompareAndDelete(id, mu)
		}
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}

	s.UpdatedAt = time.Now()
	if err := m.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("store session %s: %w", id, err)
	}

	m.notify(s)
	return s, nil
}
