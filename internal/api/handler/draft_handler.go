package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-forge/internal/dto"
	"shift-forge/internal/service"
	"shift-forge/pkg/response"
)

// DraftHandler 排班草稿模块 HTTP 处理器
type DraftHandler struct {
	draftSvc service.DraftService
}

// NewDraftHandler 创建 DraftHandler
func NewDraftHandler(draftSvc service.DraftService) *DraftHandler {
	return &DraftHandler{draftSvc: draftSvc}
}

// Generate 生成排班草稿
// POST /api/v1/drafts/generate
func (h *DraftHandler) Generate(c *gin.Context) {
	var req dto.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	draft, err := h.draftSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}
	response.Created(c, draft)
}

// GetCurrent 获取当前草稿
// GET /api/v1/drafts/current
func (h *DraftHandler) GetCurrent(c *gin.Context) {
	draft, err := h.draftSvc.GetCurrent(c.Request.Context())
	if err != nil {
		h.handleDraftError(c, err)
		return
	}
	response.OK(c, draft)
}

// GetByID 按 ID 获取草稿
// GET /api/v1/drafts/:id
func (h *DraftHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "草稿ID不能为空")
		return
	}

	draft, err := h.draftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}
	response.OK(c, draft)
}

// Apply 确认草稿并写回花名册
// POST /api/v1/drafts/:id/apply
func (h *DraftHandler) Apply(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "草稿ID不能为空")
		return
	}

	result, err := h.draftSvc.Apply(c.Request.Context(), id)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}
	response.OK(c, result)
}

// Discard 废弃草稿
// POST /api/v1/drafts/:id/discard
func (h *DraftHandler) Discard(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "草稿ID不能为空")
		return
	}

	if err := h.draftSvc.Discard(c.Request.Context(), id); err != nil {
		h.handleDraftError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleDraftError 草稿模块业务错误 → HTTP 响应
func (h *DraftHandler) handleDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		response.NotFound(c, 16001, "草稿不存在或已过期")
	case errors.Is(err, service.ErrDraftNotEditable):
		response.Conflict(c, 16002, "草稿已应用或已废弃，不可再操作")
	case errors.Is(err, service.ErrNoActiveOperators):
		response.BadRequest(c, 16003, "没有在岗操作员，无法生成")
	case errors.Is(err, service.ErrDraftCorrupted):
		response.Error(c, http.StatusInternalServerError, 16004, "草稿数据损坏")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/draft_handler.go
