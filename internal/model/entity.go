package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Schedule 저장된 시간표 (이름 기준 upsert)
type Schedule struct {
	ID        string                       `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string                       `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Nodes     datatypes.JSONType[[]Node]   `gorm:"not null" json:"nodes"`
	Settings  datatypes.JSONType[Settings] `gorm:"not null" json:"settings"`
	CreatedAt time.Time                    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                    `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// BeforeCreate ID가 비어 있으면 UUID 발급
func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// NewSchedule 노드/설정으로 Schedule 생성
func NewSchedule(name string, nodes []Node, settings Settings) *Schedule {
	if nodes == nil {
		nodes = []Node{}
	}
	return &Schedule{
		Name:     name,
		Nodes:    datatypes.NewJSONType(nodes),
		Settings: datatypes.NewJSONType(settings),
	}
}
