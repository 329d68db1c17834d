package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/KamleshRebari/wms-nppg/internal/model"
)

func newTestExportService(t *testing.T) (ExportService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepository()
	return NewExportService(repo, zap.NewNop()), mocks
}

func TestDailyPDF(t *testing.T) {
	svc, mocks := newTestExportService(t)
	ctx := context.Background()

	slot := seedSlot(t, mocks, "Morning", "09:00", "10:00")
	worker := seedWorker(t, mocks, "Asha", nil)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	if err := mocks.attendance.Upsert(ctx, &model.AttendanceRecord{
		WorkerID: worker.WorkerID, Date: day, SlotID: slot.SlotID, Present: true,
	}); err != nil {
		t.Fatalf("写入记录失败: %v", err)
	}

	buf, filename, err := svc.DailyPDF(ctx, day)
	if err != nil {
		t.Fatalf("生成 PDF 失败: %v", err)
	}
	if filename != "attendance_2026-09-01.pdf" {
		t.Errorf("文件名不符: %s", filename)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("输出应为合法的 PDF 字节流")
	}
}

func TestMonthlyExcel(t *testing.T) {
	svc, mocks := newTestExportService(t)
	ctx := context.Background()

	slot := seedSlot(t, mocks, "Morning", "09:00", "10:00")
	worker := seedWorker(t, mocks, "Asha", nil)

	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	if err := mocks.attendance.Upsert(ctx, &model.AttendanceRecord{
		WorkerID: worker.WorkerID, Date: day, SlotID: slot.SlotID, Present: true,
	}); err != nil {
		t.Fatalf("写入记录失败: %v", err)
	}

	buf, filename, err := svc.MonthlyExcel(ctx, 2026, time.September)
	if err != nil {
		t.Fatalf("生成 Excel 失败: %v", err)
	}
	if filename != "attendance_2026-09.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	if buf.Len() == 0 {
		t.Error("Excel 输出不应为空")
	}
}

func TestMyCalendar(t *testing.T) {
	svc, mocks := newTestExportService(t)
	ctx := context.Background()

	t.Run("未关联账号拒绝导出", func(t *testing.T) {
		user := &model.User{Username: "lonely", PasswordHash: "x", Name: "Lonely"}
		if err := mocks.users.Create(ctx, user); err != nil {
			t.Fatalf("写入用户失败: %v", err)
		}
		if _, _, err := svc.MyCalendar(ctx, user.UserID); !errors.Is(err, ErrExportUnlinked) {
			t.Errorf("应返回 ErrExportUnlinked, 实际 %v", err)
		}
	})

	t.Run("出勤记录生成 VEVENT", func(t *testing.T) {
		email := "asha@example.com"
		user := &model.User{Username: "asha", PasswordHash: "x", Name: "Asha", Email: &email}
		if err := mocks.users.Create(ctx, user); err != nil {
			t.Fatalf("写入用户失败: %v", err)
		}
		worker := seedWorker(t, mocks, "Asha", &email)
		slot := seedSlot(t, mocks, "Morning", "09:00", "10:00")

		day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
		for _, rec := range []*model.AttendanceRecord{
			{WorkerID: worker.WorkerID, Date: day, SlotID: slot.SlotID, Present: true},
			{WorkerID: worker.WorkerID, Date: day.AddDate(0, 0, 1), SlotID: slot.SlotID, Present: false},
		} {
			if err := mocks.attendance.Upsert(ctx, rec); err != nil {
				t.Fatalf("写入记录失败: %v", err)
			}
		}

		buf, filename, err := svc.MyCalendar(ctx, user.UserID)
		if err != nil {
			t.Fatalf("生成日历失败: %v", err)
		}
		if filename != "my_attendance.ics" {
			t.Errorf("文件名不符: %s", filename)
		}

		out := buf.String()
		if !strings.Contains(out, "BEGIN:VCALENDAR") {
			t.Error("输出应为 iCalendar 格式")
		}
		// 只有出勤 (present=true) 的记录生成事件
		if got := strings.Count(out, "BEGIN:VEVENT"); got != 1 {
			t.Errorf("应只有 1 个 VEVENT, 实际 %d", got)
		}
		if !strings.Contains(out, "Present: Morning") {
			t.Error("事件摘要应包含时段名")
		}
	})
}
