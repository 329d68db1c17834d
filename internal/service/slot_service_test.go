package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/KamleshRebari/wms-nppg/internal/dto"
	"github.com/KamleshRebari/wms-nppg/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 1, hour, minute, 0, 0, time.Local)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 9 * 60, false},
		{"09:00:00", 9 * 60, false}, // 数据库 time 列回读格式
		{"23:59", 23*60 + 59, false},
		{"9am", 0, true},
		{"25:00", 0, true},
		{"", 0, true},
	}

	for _, c := range cases {
		got, err := parseClock(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseClock(%q) 应当返回错误", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseClock(%q) 意外失败: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseClock(%q) = %d, 期望 %d", c.in, got, c.want)
		}
	}
}

func TestResolveCurrentSlot(t *testing.T) {
	slots := []model.Slot{
		{SlotID: "s1", Name: "Slot 1", StartTime: "09:00", EndTime: "10:00"},
		{SlotID: "s2", Name: "Slot 2", StartTime: "13:00", EndTime: "14:00"},
		{SlotID: "s3", Name: "Slot 3", StartTime: "16:00", EndTime: "17:00"},
	}

	t.Run("窗口内命中", func(t *testing.T) {
		got := resolveCurrentSlot(slots, at(9, 30))
		if got == nil || got.SlotID != "s1" {
			t.Fatalf("09:30 应命中 s1, 实际 %+v", got)
		}
	})

	t.Run("窗口外无命中", func(t *testing.T) {
		if got := resolveCurrentSlot(slots, at(11, 0)); got != nil {
			t.Fatalf("11:00 不应命中任何时段, 实际 %+v", got)
		}
	})

	t.Run("边界为闭区间", func(t *testing.T) {
		if got := resolveCurrentSlot(slots, at(9, 0)); got == nil || got.SlotID != "s1" {
			t.Fatalf("09:00 整点应命中 s1")
		}
		if got := resolveCurrentSlot(slots, at(10, 0)); got == nil || got.SlotID != "s1" {
			t.Fatalf("10:00 整点应命中 s1")
		}
	})

	t.Run("重叠时段取排序最靠前者", func(t *testing.T) {
		overlapping := []model.Slot{
			{SlotID: "a", Name: "Early", StartTime: "09:00", EndTime: "12:00"},
			{SlotID: "b", Name: "Late", StartTime: "10:00", EndTime: "12:00"},
		}
		got := resolveCurrentSlot(overlapping, at(10, 30))
		if got == nil || got.SlotID != "a" {
			t.Fatalf("重叠时命中应确定取第一个, 实际 %+v", got)
		}
	})

	t.Run("无法解析的时段被跳过", func(t *testing.T) {
		broken := []model.Slot{
			{SlotID: "bad", StartTime: "oops", EndTime: "10:00"},
			{SlotID: "ok", StartTime: "09:00", EndTime: "10:00"},
		}
		got := resolveCurrentSlot(broken, at(9, 30))
		if got == nil || got.SlotID != "ok" {
			t.Fatalf("坏数据时段应被跳过, 实际 %+v", got)
		}
	})
}

func newTestSlotService(t *testing.T) (*slotService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepository()
	svc := &slotService{repo: repo, logger: zap.NewNop(), now: time.Now}
	return svc, mocks
}

func TestSlotServiceCreate(t *testing.T) {
	svc, mocks := newTestSlotService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateSlotRequest{
		Name:      "Morning",
		StartTime: "09:00",
		EndTime:   "10:00",
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}
	if !resp.IsActive {
		t.Error("未指定 is_active 时应缺省为启用")
	}
	if len(mocks.slots.slots) != 1 {
		t.Errorf("应写入 1 条时段, 实际 %d", len(mocks.slots.slots))
	}
}

func TestSlotServiceCreateValidation(t *testing.T) {
	svc, mocks := newTestSlotService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateSlotRequest{
		Name: "Bad", StartTime: "morning", EndTime: "10:00",
	}, "admin-1")
	if !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("非法时间格式应返回 ErrInvalidTimeFormat, 实际 %v", err)
	}

	_, err = svc.Create(ctx, &dto.CreateSlotRequest{
		Name: "Bad", StartTime: "12:00", EndTime: "09:00",
	}, "admin-1")
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("start > end 应返回 ErrInvalidTimeRange, 实际 %v", err)
	}

	if len(mocks.slots.slots) != 0 {
		t.Error("校验失败时不应有任何写入")
	}
}

func TestSlotServiceUpdateTimePair(t *testing.T) {
	svc, _ := newTestSlotService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateSlotRequest{
		Name: "Morning", StartTime: "09:00", EndTime: "10:00",
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}

	// 只给 start_time：时间对不变
	newStart := "08:00"
	got, err := svc.Update(ctx, created.ID, &dto.UpdateSlotRequest{StartTime: &newStart}, "admin-1")
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if got.StartTime != "09:00" || got.EndTime != "10:00" {
		t.Errorf("只提供 start_time 时两者都应保持不变, 实际 %s-%s", got.StartTime, got.EndTime)
	}

	// 成对提供：整体生效
	newEnd := "09:30"
	got, err = svc.Update(ctx, created.ID, &dto.UpdateSlotRequest{StartTime: &newStart, EndTime: &newEnd}, "admin-1")
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if got.StartTime != "08:00" || got.EndTime != "09:30" {
		t.Errorf("成对提供时应整体生效, 实际 %s-%s", got.StartTime, got.EndTime)
	}

	// 成对但非法：拒绝且原值不变
	badEnd := "07:00"
	if _, err := svc.Update(ctx, created.ID, &dto.UpdateSlotRequest{StartTime: &newStart, EndTime: &badEnd}, "admin-1"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("非法时间对应返回 ErrInvalidTimeRange, 实际 %v", err)
	}
	got, _ = svc.GetByID(ctx, created.ID)
	if got.StartTime != "08:00" || got.EndTime != "09:30" {
		t.Errorf("非法更新后原值应保持不变, 实际 %s-%s", got.StartTime, got.EndTime)
	}
}

func TestSlotServiceNotFound(t *testing.T) {
	svc, _ := newTestSlotService(t)
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "missing"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("查询不存在的时段应返回 ErrSlotNotFound, 实际 %v", err)
	}
	if err := svc.Delete(ctx, "missing", "admin-1"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("删除不存在的时段应返回 ErrSlotNotFound, 实际 %v", err)
	}
}

func TestSlotServiceCurrent(t *testing.T) {
	svc, _ := newTestSlotService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.CreateSlotRequest{
		Name: "Morning", StartTime: "09:00", EndTime: "10:00",
	}, "admin-1"); err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}
	inactive := false
	if _, err := svc.Create(ctx, &dto.CreateSlotRequest{
		Name: "Disabled", StartTime: "11:00", EndTime: "12:00", IsActive: &inactive,
	}, "admin-1"); err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}

	svc.now = func() time.Time { return at(9, 30) }
	resp, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("查询当前时段失败: %v", err)
	}
	if resp.Slot == nil || resp.Slot.Name != "Morning" {
		t.Errorf("09:30 应命中 Morning, 实际 %+v", resp.Slot)
	}
	if resp.ServerTime != "09:30" {
		t.Errorf("ServerTime 应为 09:30, 实际 %s", resp.ServerTime)
	}

	// 停用时段不参与解析
	svc.now = func() time.Time { return at(11, 30) }
	resp, err = svc.Current(ctx)
	if err != nil {
		t.Fatalf("查询当前时段失败: %v", err)
	}
	if resp.Slot != nil {
		t.Errorf("停用时段不应命中, 实际 %+v", resp.Slot)
	}
}
