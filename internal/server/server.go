package server

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"schedule-backend/internal/auth"
	"schedule-backend/internal/board"
	"schedule-backend/internal/config"
	"schedule-backend/internal/handler"
	"schedule-backend/internal/middleware"
	"schedule-backend/internal/model"
	"schedule-backend/internal/service"
	"schedule-backend/internal/session"
)

// Server Fiber 서버 래퍼
type Server struct {
	app             *fiber.App
	cfg             *config.Config
	keys            *auth.KeyManager
	healthHandler   *handler.HealthHandler
	layoutHandler   *handler.LayoutHandler
	boardHandler    *handler.BoardHandler
	boardWSHandler  *handler.BoardWSHandler
	scheduleHandler *handler.ScheduleHandler
	keyHandler      *handler.KeyHandler
	boardMiddleware *middleware.BoardMiddleware
}

// New 새 서버 인스턴스 생성
//
// store는 세션 저장소(Redis 또는 메모리), seed가 nil이면 새 보드는 비어 있다.
func New(cfg *config.Config, db *gorm.DB, store session.Store, seed model.Timetable) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:       "Schedule Board API",
		ServerHeader:  "Fiber",
		StrictRouting: true,
		CaseSensitive: true,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		BodyLimit:     cfg.Server.BodyLimit,
	})

	exporter, err := handler.NewExporter(cfg.Export)
	if err != nil {
		return nil, fmt.Errorf("export config: %w", err)
	}

	defaults := cfg.Layout.Settings()
	if err := board.GridFor(defaults).Validate(); err != nil {
		return nil, fmt.Errorf("layout config: %w", err)
	}

	keys := auth.NewKeyManager(cfg.Auth.KeySecret, cfg.Auth.KeyExpiry)
	sessions := session.NewManager(store)
	schedules := service.NewScheduleService(db)

	// Redis 저장소일 때만 헬스체크 대상
	var pinger handler.Pinger
	if p, ok := store.(handler.Pinger); ok {
		pinger = p
	}

	return &Server{
		app:             app,
		cfg:             cfg,
		keys:            keys,
		healthHandler:   handler.NewHealthHandler(db, pinger),
		layoutHandler:   handler.NewLayoutHandler(defaults),
		boardHandler:    handler.NewBoardHandler(sessions, schedules, exporter, seed, defaults),
		boardWSHandler:  handler.NewBoardWSHandler(sessions, cfg.WebSocket.WriteTimeout),
		scheduleHandler: handler.NewScheduleHandler(schedules, exporter),
		keyHandler:      handler.NewKeyHandler(keys),
		boardMiddleware: middleware.NewBoardMiddleware(sessions),
	}, nil
}

// App Fiber 앱 (테스트용)
func (s *Server) App() *fiber.App {
	return s.app
}

// Keys API 키 관리자
func (s *Server) Keys() *auth.KeyManager {
	return s.keys
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.CORS.AllowOrigins,
		AllowHeaders: s.cfg.CORS.AllowHeaders,
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크 엔드포인트
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	writeLimit := s.cfg.Server.WriteLimit
	if writeLimit <= 0 {
		writeLimit = 30
	}

	// Rate Limiter 설정 (저장 엔드포인트용)
	writeLimiter := limiter.New(limiter.Config{
		Max:        writeLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() // IP 기반 제한
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	keyAuth := auth.KeyMiddleware(s.keys)
	api := s.app.Group("/api", keyAuth)

	// Layout
	api.Post("/layout/project", s.layoutHandler.Project)

	// API 키 발급 (service 역할만)
	api.Post("/keys", auth.RequireRole(auth.RoleService), s.keyHandler.IssueKey)

	// Board (편집 세션) 라우트 그룹
	boardGroup := api.Group("/boards")
	boardGroup.Post("", s.boardHandler.CreateBoard)
	boardGroup.Get("/:id", s.boardHandler.GetBoard)
	boardGroup.Delete("/:id", s.boardHandler.DeleteBoard)
	boardGroup.Post("/:id/nodes", s.boardHandler.AddNode)
	boardGroup.Post("/:id/nodes/delete", s.boardHandler.DeleteNodes)
	boardGroup.Put("/:id/nodes/:nodeId", s.boardHandler.UpdateNode)
	boardGroup.Delete("/:id/nodes/:nodeId", s.boardHandler.DeleteNode)
	boardGroup.Post("/:id/nodes/:nodeId/duplicate", s.boardHandler.DuplicateNode)
	boardGroup.Put("/:id/nodes/:nodeId/position", s.boardHandler.MoveNode)
	boardGroup.Put("/:id/nodes/:nodeId/size", s.boardHandler.ResizeNode)
	boardGroup.Put("/:id/settings", s.boardHandler.UpdateSettings)
	boardGroup.Put("/:id/rows/:hour", s.boardHandler.SetRowHeight)
	boardGroup.Post("/:id/save", writeLimiter, s.boardHandler.SaveBoard)
	boardGroup.Post("/:id/load", s.boardHandler.LoadBoard)
	boardGroup.Get("/:id/export/:format", s.boardHandler.ExportBoard)

	// Schedule (저장된 시간표) 라우트 그룹
	scheduleGroup := api.Group("/schedules")
	scheduleGroup.Get("", s.scheduleHandler.ListSchedules)
	scheduleGroup.Post("", writeLimiter, s.scheduleHandler.SaveSchedule)
	scheduleGroup.Get("/:id", s.scheduleHandler.GetSchedule)
	scheduleGroup.Delete("/:id", s.scheduleHandler.DeleteSchedule)
	scheduleGroup.Get("/:id/export/:format", s.scheduleHandler.ExportSchedule)

	// WebSocket 업그레이드 체크 미들웨어
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket 보드 스트림 (브라우저는 ?apikey= 로 인증)
	s.app.Get("/ws/boards/:id", keyAuth, s.boardMiddleware.RequireBoard(),
		websocket.New(s.boardWSHandler.HandleWebSocket, websocket.Config{
			ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
		}))
}

// Start 서버 시작 (Graceful Shutdown 지원)
func (s *Server) Start() error {
	// Graceful Shutdown 설정
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Fatalf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 Schedule Board API starting on %s", s.cfg.Server.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost%s/ws/boards/:id", s.cfg.Server.Port)

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
