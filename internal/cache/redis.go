package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"schedule-backend/internal/session"
)

const sessionKeyPrefix = "board:session:"

// RedisStore Redis 기반 편집 세션 저장소
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient Redis 클라이언트 생성 및 연결 확인
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Printf("[Redis] Connected to %s", addr)
	return client, nil
}

// NewRedisStore RedisStore 생성 (ttl: 마지막 변경 후 유지 시간)
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get 세션 조회 (조회 시 TTL 연장)
func (r *RedisStore) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	r.refreshTTL(ctx, id)
	return &s, nil
}

// refreshTTL 조회된 세션의 만료 시간 연장 (실패해도 조회 결과는 유효)
func (r *RedisStore) refreshTTL(ctx context.Context, id string) error {
	if err := r.client.Expire(ctx, sessionKey(id), r.ttl).Err(); err != nil {
		log.Printf("[Redis] Failed to refresh TTL for session %s: %v", id, err)
		return err
	}
	return nil
}

// Put 세션 저장
func (r *RedisStore) Put(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		log.Printf("[Redis] Failed to store session %s: %v", s.ID, err)
		return err
	}
	return nil
}

// Delete 세션 삭제
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	return nil
}

// Health Redis 상태 확인
func (r *RedisStore) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close Redis 연결 종료
func (r *RedisStore) Close() error {
	return r.client.Close()
}
