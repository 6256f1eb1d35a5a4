package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"schedule-backend/internal/board"
	"schedule-backend/internal/model"
)

// mapStore JSON 사본을 보관하는 테스트용 저장소
type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string][]byte)}
}

func (m *mapStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *mapStore) Put(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = raw
	return nil
}

func (m *mapStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.data, id)
	return nil
}

func emptyBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.Build(nil, model.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestMutateNotifiesAndPersists(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newMapStore())

	var notified []int
	mgr.OnChange(func(s *Session) {
		notified = append(notified, len(s.Board.ClassNodes()))
	})

	s, err := mgr.Create(ctx, emptyBoard(t), "")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := mgr.Mutate(ctx, s.ID, func(s *Session) error {
		_, err := s.Board.AddClass(nil, nil)
		return err
	}); err != nil {
		t.Fatalf("Mutate() error: %v", err)
	}

	got, err := mgr.Get(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(got.Board.ClassNodes()); n != 1 {
		t.Errorf("stored classes = %d, want 1", n)
	}
	if len(notified) != 1 || notified[0] != 1 {
		t.Errorf("notified = %v, want [1]", notified)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestMutateErrorDiscardsChanges(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newMapStore())
	s, _ := mgr.Create(ctx, emptyBoard(t), "")

	calls := 0
	mgr.OnChange(func(*Session) { calls++ })

	boom := errors.New("boom")
	_, err := mgr.Mutate(ctx, s.ID, func(s *Session) error {
		s.Board.AddClass(nil, nil)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Mutate() error = %v, want boom", err)
	}

	got, _ := mgr.Get(ctx, s.ID)
	if n := len(got.Board.ClassNodes()); n != 0 {
		t.Errorf("failed mutation leaked %d classes", n)
	}
	if calls != 0 {
		t.Errorf("listener called %d times after failed mutation", calls)
	}

	if _, err := mgr.Mutate(ctx, "missing", func(*Session) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Mutate(missing) error = %v, want ErrSessionNotFound", err)
	}
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newMapStore())
	s, _ := mgr.Create(ctx, emptyBoard(t), "")

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mgr.Mutate(ctx, s.ID, func(s *Session) error {
				_, err := s.Board.AddClass(nil, nil)
				return err
			})
		}()
	}
	wg.Wait()

	got, _ := mgr.Get(ctx, s.ID)
	if n := len(got.Board.ClassNodes()); n != workers {
		t.Errorf("classes = %d, want %d (lost updates)", n, workers)
	}
}

func TestDeleteNotifies(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newMapStore())
	s, _ := mgr.Create(ctx, emptyBoard(t), "sched-1")
	if s.ScheduleID != "sched-1" {
		t.Errorf("ScheduleID = %q", s.ScheduleID)
	}

	var deleted []string
	mgr.OnDelete(func(id string) { deleted = append(deleted, id) })

	if err := mgr.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != s.ID {
		t.Errorf("deleted = %v", deleted)
	}
	if _, err := mgr.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
}

func lockCount(m *Manager) int {
	n := 0
	m.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestMutateReleasesLocksForMissingSessions(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	mgr := NewManager(store)

	for i := 0; i < 50; i++ {
		mgr.Mutate(ctx, fmt.Sprintf("ghost-%d", i), func(*Session) error { return nil })
	}
	if n := lockCount(mgr); n != 0 {
		t.Errorf("locks after unknown ids = %d, want 0", n)
	}

	// 저장소에서 사라진 세션 (TTL 만료와 같은 상황)
	s, _ := mgr.Create(ctx, emptyBoard(t), "")
	if _, err := mgr.Mutate(ctx, s.ID, func(*Session) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if n := lockCount(mgr); n != 1 {
		t.Fatalf("locks for live session = %d, want 1", n)
	}
	store.mu.Lock()
	delete(store.data, s.ID)
	store.mu.Unlock()

	if _, err := mgr.Mutate(ctx, s.ID, func(*Session) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Mutate(expired) error = %v", err)
	}
	if n := lockCount(mgr); n != 0 {
		t.Errorf("locks after expiry = %d, want 0", n)
	}
}
