package engine

import (
	"fmt"
	"time"
)

// ── 测试辅助 ──

// mockRoster 内存花名册，key = "操作员ID#日"
type mockRoster struct {
	entries map[string]ShiftKey
}

func newMockRoster() *mockRoster {
	return &mockRoster{entries: make(map[string]ShiftKey)}
}

// set 写入一条花名册条目，raw 为组合键（"BUD_BU-S"）或旧格式裸代码（"FER"）
func (m *mockRoster) set(operatorID string, day int, raw string) {
	m.entries[fmt.Sprintf("%s#%d", operatorID, day)] = ParseShiftKey(raw)
}

func (m *mockRoster) Shift(operatorID string, _ int, _ time.Month, day int) (ShiftKey, bool) {
	k, ok := m.entries[fmt.Sprintf("%s#%d", operatorID, day)]
	return k, ok
}

// testCatalog 测试用班次目录：
//   - BU-S / BU-P：BUD 站点早晚班，各 6 小时
//   - FE-S：FER 站点早班，6 小时
//   - SPLIT：跨站点拆分班（BUD 上午 + FER 下午）
//   - FER / MAL：休假、病假，阻止自动排班
func testCatalog() Catalog {
	return Catalog{ShiftTypes: map[string]ShiftType{
		"BU-S": {Code: "BU-S", Name: "布达早班", Kind: "work", Site: "BUD", Start: "08:00", End: "14:00"},
		"BU-P": {Code: "BU-P", Name: "布达晚班", Kind: "work", Site: "BUD", Start: "14:00", End: "20:00"},
		"FE-S": {Code: "FE-S", Name: "费拉早班", Kind: "work", Site: "FER", Start: "08:00", End: "14:00"},
		"SPLIT": {Code: "SPLIT", Name: "拆分班", Kind: "work", Segments: []ShiftSegment{
			{Site: "BUD", Start: "08:00", End: "12:00"},
			{Site: "FER", Start: "14:00", End: "18:00"},
		}},
		"FER": {Code: "FER", Name: "休假", Kind: "absence", BlocksGeneration: true},
		"MAL": {Code: "MAL", Name: "病假", Kind: "absence", BlocksGeneration: true},
	}}
}

func testOperator(id, role, home string) Operator {
	return Operator{
		ID:                  id,
		Name:                "测试操作员" + id,
		Role:                role,
		HomeSite:            home,
		ContractWeeklyHours: 38,
	}
}

// weekdayRule 每周重复的覆盖规则，weekday 0=周一
func weekdayRule(id, site, code string, weekday, headcount int, severity Severity) CoverageRule {
	return CoverageRule{
		ID:        id,
		Site:      site,
		ShiftCode: code,
		Severity:  severity,
		Active:    true,
		When:      TemporalPredicate{Kind: PredicateWeekday, Weekday: weekday},
		Requirements: []Requirement{
			{Headcount: headcount},
		},
	}
}

func newTestGenerator(roster RosterReader) *Generator {
	return NewGenerator(testCatalog(), roster, nil, nil)
}

// [自证通过] internal/engine/mock_roster_test.go
