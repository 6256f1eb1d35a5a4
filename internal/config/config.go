package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"schedule-backend/internal/model"
)

// Config 애플리케이션 전체 설정
type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Layout    LayoutConfig
	Seed      SeedConfig
	Export    ExportConfig
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
	WriteLimit   int // 분당 저장 요청 수 (IP별)
}

// WebSocketConfig WebSocket 관련 설정
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	WriteTimeout    time.Duration
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins string
	AllowHeaders string
}

// AuthConfig API 키 설정
type AuthConfig struct {
	KeySecret string
	KeyExpiry time.Duration // 0 이면 만료 없음
}

// RedisConfig Redis 설정 (Addr 비어 있으면 메모리 세션 사용)
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

// LayoutConfig 새 보드의 기본 그리드 설정
type LayoutConfig struct {
	StartTime    float64
	EndTime      float64
	TimeHeight   float64
	TimeFontSize float64
}

// Settings 기본 그리드 설정으로 변환
func (l LayoutConfig) Settings() model.Settings {
	return model.Settings{
		StartTime:    l.StartTime,
		EndTime:      l.EndTime,
		TimeFontSize: l.TimeFontSize,
		TimeHeight:   l.TimeHeight,
	}
}

// SeedConfig 시드 시간표 설정
type SeedConfig struct {
	File    string // 비어 있으면 내장 시간표
	Enabled bool   // false 면 새 보드는 라벨만 가진다
}

// ExportConfig 내보내기 설정
type ExportConfig struct {
	ICSWeeks    int
	ICSTimezone string
	ICSFirstDay string // YYYY-MM-DD, 비어 있으면 이번 주
}

// Load 환경 변수에서 설정 로드
func Load() *Config {
	// .env 파일 로드 (없어도 에러 무시)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	// 필수 환경 변수 검증
	keySecret := getRequiredEnv("API_KEY_SECRET")
	if keySecret == "change-this-secret-in-production" {
		log.Fatal("🚨 CRITICAL: API_KEY_SECRET must be changed from default value in production!")
	}

	defaults := model.DefaultSettings()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
			BodyLimit:    getInt("BODY_LIMIT", 4*1024*1024),
			WriteLimit:   getInt("WRITE_RATE_LIMIT", 30),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getInt("WS_READ_BUFFER_SIZE", 16*1024),
			WriteBufferSize: getInt("WS_WRITE_BUFFER_SIZE", 64*1024),
			WriteTimeout:    getDuration("WS_WRITE_TIMEOUT", 5*time.Second),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin, Content-Type, Accept, Authorization, apikey"),
		},
		Auth: AuthConfig{
			KeySecret: keySecret,
			KeyExpiry: getDuration("API_KEY_EXPIRY", 0),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getInt("REDIS_DB", 0),
			SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),
		},
		Layout: LayoutConfig{
			StartTime:    getFloat("LAYOUT_START_TIME", defaults.StartTime),
			EndTime:      getFloat("LAYOUT_END_TIME", defaults.EndTime),
			TimeHeight:   getFloat("LAYOUT_TIME_HEIGHT", defaults.TimeHeight),
			TimeFontSize: getFloat("LAYOUT_TIME_FONT_SIZE", defaults.TimeFontSize),
		},
		Seed: SeedConfig{
			File:    getEnv("SEED_FILE", ""),
			Enabled: getBool("SEED_ENABLED", true),
		},
		Export: ExportConfig{
			ICSWeeks:    getInt("ICS_WEEKS", 15),
			ICSTimezone: getEnv("ICS_TIMEZONE", "UTC"),
			ICSFirstDay: getEnv("ICS_FIRST_DAY", ""),
		},
	}
}

// getRequiredEnv 필수 환경 변수 조회 (없으면 Fatal)
func getRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("🚨 CRITICAL: Required environment variable %s is not set!", key)
	}
	return value
}

// getEnv 환경 변수 조회 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt 정수형 환경 변수 조회
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getFloat 실수형 환경 변수 조회
func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getBool 불리언 환경 변수 조회
func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getDuration 시간 환경 변수 조회
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// 숫자만 있으면 초로 간주
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
