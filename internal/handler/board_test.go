package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schedule-backend/internal/board"
	"schedule-backend/internal/cache"
	"schedule-backend/internal/config"
	"schedule-backend/internal/database"
	"schedule-backend/internal/model"
	"schedule-backend/internal/service"
	"schedule-backend/internal/session"
)

// flakyStore Put 실패를 켜고 끌 수 있는 세션 저장소
type flakyStore struct {
	*cache.MemoryStore
	failPut atomic.Bool
}

func (f *flakyStore) Put(ctx context.Context, s *session.Session) error {
	if f.failPut.Load() {
		return errors.New("store unavailable")
	}
	return f.MemoryStore.Put(ctx, s)
}

func TestSaveBoardReportsCommittedSchedule(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:handler_save?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}

	store := &flakyStore{MemoryStore: cache.NewMemoryStore(time.Hour)}
	sessions := session.NewManager(store)
	schedules := service.NewScheduleService(db)
	exporter, err := NewExporter(config.ExportConfig{ICSWeeks: 1, ICSTimezone: "UTC"})
	if err != nil {
		t.Fatal(err)
	}
	h := NewBoardHandler(sessions, schedules, exporter, nil, model.DefaultSettings())

	app := fiber.New()
	app.Post("/boards/:id/save", h.SaveBoard)

	b, err := board.Build(nil, model.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	s, err := sessions.Create(context.Background(), b, "")
	if err != nil {
		t.Fatal(err)
	}

	store.failPut.Store(true)
	req := httptest.NewRequest("POST", "/boards/"+s.ID+"/save", strings.NewReader(`{"name":"Fall"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a committed schedule", resp.StatusCode)
	}

	var got model.Schedule
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	stored, err := schedules.GetByName(context.Background(), "Fall")
	if err != nil {
		t.Fatalf("schedule not stored: %v", err)
	}
	if got.ID != stored.ID {
		t.Errorf("response id = %s, stored id = %s", got.ID, stored.ID)
	}

	// 세션 쪽 scheduleId 는 갱신되지 않은 채로 남는다
	current, _ := sessions.Get(context.Background(), s.ID)
	if current.ScheduleID != "" {
		t.Errorf("session scheduleId = %q, want unchanged", current.ScheduleID)
	}
}
