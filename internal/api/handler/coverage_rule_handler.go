package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shift-forge/internal/dto"
	"shift-forge/internal/service"
	"shift-forge/pkg/response"
)

// CoverageRuleHandler 覆盖规则模块 HTTP 处理器
// 同时承担月度覆盖检查的只读入口
type CoverageRuleHandler struct {
	ruleSvc  service.CoverageRuleService
	checkSvc service.CoverageService
}

// NewCoverageRuleHandler 创建 CoverageRuleHandler
func NewCoverageRuleHandler(ruleSvc service.CoverageRuleService, checkSvc service.CoverageService) *CoverageRuleHandler {
	return &CoverageRuleHandler{ruleSvc: ruleSvc, checkSvc: checkSvc}
}

// ListRules 获取覆盖规则列表
// GET /api/v1/coverage-rules?active_only=true
func (h *CoverageRuleHandler) ListRules(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	rules, err := h.ruleSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rules})
}

// GetRule 获取覆盖规则详情
// GET /api/v1/coverage-rules/:id
func (h *CoverageRuleHandler) GetRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	rule, err := h.ruleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCoverageRuleError(c, err)
		return
	}
	response.OK(c, rule)
}

// CreateRule 创建覆盖规则
// POST /api/v1/coverage-rules
func (h *CoverageRuleHandler) CreateRule(c *gin.Context) {
	var req dto.CreateCoverageRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rule, err := h.ruleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCoverageRuleError(c, err)
		return
	}
	response.Created(c, rule)
}

// UpdateRule 更新覆盖规则
// PUT /api/v1/coverage-rules/:id
func (h *CoverageRuleHandler) UpdateRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	var req dto.UpdateCoverageRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rule, err := h.ruleSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCoverageRuleError(c, err)
		return
	}
	response.OK(c, rule)
}

// DeleteRule 删除覆盖规则
// DELETE /api/v1/coverage-rules/:id
func (h *CoverageRuleHandler) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	if err := h.ruleSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCoverageRuleError(c, err)
		return
	}
	response.OK(c, nil)
}

// CheckMonth 月度覆盖检查
// GET /api/v1/coverage/check?year=2025&month=9&include_draft=true
func (h *CoverageRuleHandler) CheckMonth(c *gin.Context) {
	var req dto.CoverageCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.checkSvc.CheckMonth(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// handleCoverageRuleError 覆盖规则模块业务错误 → HTTP 响应
func (h *CoverageRuleHandler) handleCoverageRuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCoverageRuleNotFound):
		response.NotFound(c, 14001, "覆盖规则不存在")
	case errors.Is(err, service.ErrWhenPayloadInvalid):
		response.BadRequest(c, 14002, "时间条件与类型不匹配")
	case errors.Is(err, service.ErrShiftTypeNotFound):
		response.NotFound(c, 12001, "班次类型不存在")
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 11001, "站点不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/coverage_rule_handler.go
