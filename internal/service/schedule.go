package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schedule-backend/internal/model"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrInvalidName      = errors.New("schedule name is required")
)

const maxNameLength = 200

// ScheduleService 저장된 시간표 CRUD
type ScheduleService struct {
	db *gorm.DB
}

// NewScheduleService ScheduleService 생성
func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// NormalizeName 이름 공백 정리 및 검증
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if len([]rune(name)) > maxNameLength {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrInvalidName, maxNameLength)
	}
	return name, nil
}

// Save 이름 기준 upsert (마지막 저장이 이김)
func (s *ScheduleService) Save(ctx context.Context, name string, nodes []model.Node, settings model.Settings) (*model.Schedule, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	record := model.NewSchedule(name, nodes, settings)
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	var stored model.Schedule
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"nodes", "settings", "updated_at"}),
		}).Create(record).Error; err != nil {
			return err
		}

		// 충돌 시 기존 ID가 유지되므로 다시 조회
		return tx.Where("name = ?", name).First(&stored).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save schedule %q: %w", name, err)
	}
	return &stored, nil
}

// List 전체 목록 (최근 수정순)
func (s *ScheduleService) List(ctx context.Context) ([]model.Schedule, error) {
	var schedules []model.Schedule
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// validID uuid 컬럼에 넣을 수 있는 ID인지 확인 (아니면 조회 없이 not found)
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return nil
}

// Get ID로 조회
func (s *ScheduleService) Get(ctx context.Context, id string) (*model.Schedule, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var schedule model.Schedule
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %s: %w", id, err)
	}
	return &schedule, nil
}

// GetByName 이름으로 조회
func (s *ScheduleService) GetByName(ctx context.Context, name string) (*model.Schedule, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	var schedule model.Schedule
	err = s.db.WithContext(ctx).Where("name = ?", name).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrScheduleNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %q: %w", name, err)
	}
	return &schedule, nil
}

// Delete ID로 삭제
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Schedule{})
	if result.Error != nil {
		return fmt.Errorf("delete schedule %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return nil
}
