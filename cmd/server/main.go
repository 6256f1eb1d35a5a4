package main

import (
	"log"

	"schedule-backend/internal/cache"
	"schedule-backend/internal/config"
	"schedule-backend/internal/database"
	"schedule-backend/internal/model"
	"schedule-backend/internal/seed"
	"schedule-backend/internal/server"
	"schedule-backend/internal/session"
)

func main() {
	// 설정 로드
	cfg := config.Load()

	// 데이터베이스 연결
	db, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer database.Close()

	// Ping 테스트
	if err := database.Ping(); err != nil {
		log.Fatalf("❌ Database ping failed: %v", err)
	}
	log.Printf("✅ Database connected successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// 세션 저장소 (Redis 실패 시 메모리)
	var store session.Store
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("⚠️ Redis unavailable (%v), falling back to in-memory sessions", err)
		} else {
			redisStore := cache.NewRedisStore(client, cfg.Redis.SessionTTL)
			defer redisStore.Close()
			store = redisStore
		}
	}
	if store == nil {
		store = cache.NewMemoryStore(cfg.Redis.SessionTTL)
		log.Println("ℹ️ Using in-memory session store")
	}

	// 시드 시간표
	var table model.Timetable
	if cfg.Seed.Enabled {
		table, err = seed.Load(cfg.Seed.File)
		if err != nil {
			log.Fatalf("❌ Seed timetable invalid: %v", err)
		}
		log.Printf("📅 Seed timetable loaded (%d days)", len(table))
	}

	// 서버 생성 및 설정
	srv, err := server.New(cfg, db, store, table)
	if err != nil {
		log.Fatalf("❌ Server configuration invalid: %v", err)
	}
	srv.SetupMiddleware()
	srv.SetupRoutes()

	// 서버 시작
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
