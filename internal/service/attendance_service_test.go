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

func newTestAttendanceService(t *testing.T) (*attendanceService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepository()
	svc := &attendanceService{repo: repo, logger: zap.NewNop(), now: time.Now}
	return svc, mocks
}

func seedSlot(t *testing.T, mocks *mockRepos, name, start, end string) *model.Slot {
	t.Helper()
	slot := &model.Slot{Name: name, StartTime: start, EndTime: end, IsActive: true}
	if err := mocks.slots.Create(context.Background(), slot); err != nil {
		t.Fatalf("写入时段失败: %v", err)
	}
	return slot
}

func seedWorker(t *testing.T, mocks *mockRepos, name string, email *string) *model.Worker {
	t.Helper()
	worker := &model.Worker{
		Name:        name,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Phone:       "1234567890",
		Email:       email,
	}
	if err := mocks.workers.Create(context.Background(), worker); err != nil {
		t.Fatalf("写入工人失败: %v", err)
	}
	return worker
}

func TestSubmitNoActiveSlot(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	seedSlot(t, mocks, "Morning", "09:00", "10:00")
	w := seedWorker(t, mocks, "Asha", nil)

	svc.now = func() time.Time { return at(11, 0) }

	_, err := svc.Submit(ctx, &dto.SubmitAttendanceRequest{
		Presence: map[string]bool{w.WorkerID: true},
	}, "admin-1")
	if !errors.Is(err, ErrNoActiveSlot) {
		t.Fatalf("窗口外提交应返回 ErrNoActiveSlot, 实际 %v", err)
	}
	if len(mocks.attendance.records) != 0 {
		t.Errorf("拒绝的提交不应产生任何写入, 实际 %d 条", len(mocks.attendance.records))
	}
}

func TestSubmitMarksAllWorkers(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	slot := seedSlot(t, mocks, "Morning", "09:00", "10:00")
	w1 := seedWorker(t, mocks, "Asha", nil)
	w2 := seedWorker(t, mocks, "Binod", nil)
	w3 := seedWorker(t, mocks, "Chitra", nil)

	svc.now = func() time.Time { return at(9, 30) }

	// w3 未出现在 map 中：按缺勤记录
	resp, err := svc.Submit(ctx, &dto.SubmitAttendanceRequest{
		Presence: map[string]bool{w1.WorkerID: true, w2.WorkerID: false},
	}, "admin-1")
	if err != nil {
		t.Fatalf("提交出勤失败: %v", err)
	}

	if resp.WorkersMarked != 3 {
		t.Errorf("应覆盖全部 3 名在册工人, 实际 %d", resp.WorkersMarked)
	}
	if resp.PresentCount != 1 {
		t.Errorf("出勤数应为 1, 实际 %d", resp.PresentCount)
	}
	if resp.Slot.ID != slot.SlotID {
		t.Errorf("响应时段应为命中时段 %s, 实际 %s", slot.SlotID, resp.Slot.ID)
	}
	if len(mocks.attendance.records) != 3 {
		t.Fatalf("应写入 3 条记录, 实际 %d", len(mocks.attendance.records))
	}

	day := dateOnly(at(9, 30))
	key := attendanceKey(w3.WorkerID, day, slot.SlotID)
	rec, ok := mocks.attendance.records[key]
	if !ok {
		t.Fatal("未出现在 map 中的工人也应有记录")
	}
	if rec.Present {
		t.Error("未出现在 map 中的工人应按缺勤记录")
	}
}

func TestSubmitIsIdempotentPerSlot(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	seedSlot(t, mocks, "Morning", "09:00", "10:00")
	w := seedWorker(t, mocks, "Asha", nil)

	svc.now = func() time.Time { return at(9, 15) }
	if _, err := svc.Submit(ctx, &dto.SubmitAttendanceRequest{
		Presence: map[string]bool{w.WorkerID: false},
	}, "admin-1"); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}

	// 同时段重复提交覆盖 present，不产生重复行
	svc.now = func() time.Time { return at(9, 45) }
	if _, err := svc.Submit(ctx, &dto.SubmitAttendanceRequest{
		Presence: map[string]bool{w.WorkerID: true},
	}, "admin-1"); err != nil {
		t.Fatalf("二次提交失败: %v", err)
	}

	if len(mocks.attendance.records) != 1 {
		t.Fatalf("同键重复提交应保持 1 条记录, 实际 %d", len(mocks.attendance.records))
	}
	for _, rec := range mocks.attendance.records {
		if !rec.Present {
			t.Error("二次提交应覆盖 present 为 true")
		}
	}
}

func TestSubmitIgnoresUnknownWorkerIDs(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	seedSlot(t, mocks, "Morning", "09:00", "10:00")
	w := seedWorker(t, mocks, "Asha", nil)

	svc.now = func() time.Time { return at(9, 30) }
	resp, err := svc.Submit(ctx, &dto.SubmitAttendanceRequest{
		Presence: map[string]bool{w.WorkerID: true, "not-a-worker": true},
	}, "admin-1")
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if resp.WorkersMarked != 1 || len(mocks.attendance.records) != 1 {
		t.Errorf("未知 worker_id 应被忽略, 实际记录 %d 条", len(mocks.attendance.records))
	}
}

func TestRecordPresenceValidatesReferences(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	slot := seedSlot(t, mocks, "Morning", "09:00", "10:00")
	w := seedWorker(t, mocks, "Asha", nil)

	_, err := svc.RecordPresence(ctx, &dto.RecordPresenceRequest{
		WorkerID: "missing", Date: "2026-09-01", SlotID: slot.SlotID, Present: true,
	}, "admin-1")
	if !errors.Is(err, ErrWorkerNotFound) {
		t.Errorf("不存在的工人应返回 ErrWorkerNotFound, 实际 %v", err)
	}

	_, err = svc.RecordPresence(ctx, &dto.RecordPresenceRequest{
		WorkerID: w.WorkerID, Date: "2026-09-01", SlotID: "missing", Present: true,
	}, "admin-1")
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("不存在的时段应返回 ErrSlotNotFound, 实际 %v", err)
	}

	resp, err := svc.RecordPresence(ctx, &dto.RecordPresenceRequest{
		WorkerID: w.WorkerID, Date: "2026-09-01", SlotID: slot.SlotID, Present: true,
	}, "admin-1")
	if err != nil {
		t.Fatalf("写入单条出勤失败: %v", err)
	}
	if !resp.Present || resp.Date != "2026-09-01" {
		t.Errorf("响应内容不符: %+v", resp)
	}
}

func TestDateBySlotGroups(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	morning := seedSlot(t, mocks, "Morning", "09:00", "10:00")
	seedSlot(t, mocks, "Evening", "16:00", "17:00")
	w1 := seedWorker(t, mocks, "Asha", nil)
	w2 := seedWorker(t, mocks, "Binod", nil)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	for _, rec := range []*model.AttendanceRecord{
		{WorkerID: w1.WorkerID, Date: day, SlotID: morning.SlotID, Present: true},
		{WorkerID: w2.WorkerID, Date: day, SlotID: morning.SlotID, Present: false},
	} {
		if err := mocks.attendance.Upsert(ctx, rec); err != nil {
			t.Fatalf("写入记录失败: %v", err)
		}
	}

	resp, err := svc.DateBySlot(ctx, day)
	if err != nil {
		t.Fatalf("查询当日出勤失败: %v", err)
	}
	if len(resp.Slots) != 2 {
		t.Fatalf("应返回全部 2 个时段分组, 实际 %d", len(resp.Slots))
	}

	byName := make(map[string]dto.SlotAttendanceGroup)
	for _, g := range resp.Slots {
		byName[g.Slot.Name] = g
	}
	if got := byName["Morning"].Present; len(got) != 1 || got[0].Name != "Asha" {
		t.Errorf("Morning 分组应仅含出勤者 Asha, 实际 %+v", got)
	}
	if got := byName["Evening"].Present; len(got) != 0 {
		t.Errorf("无记录的时段应为空分组, 实际 %+v", got)
	}
}

func TestMyRecordsUnlinked(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	// 无邮箱的账号
	noEmail := &model.User{Username: "u1", PasswordHash: "x", Name: "U1"}
	if err := mocks.users.Create(ctx, noEmail); err != nil {
		t.Fatalf("写入用户失败: %v", err)
	}

	resp, err := svc.MyRecords(ctx, noEmail.UserID)
	if err != nil {
		t.Fatalf("查询个人出勤失败: %v", err)
	}
	if resp.Linked {
		t.Error("无邮箱账号应返回 linked=false")
	}
	if resp.Records == nil || len(resp.Records) != 0 {
		t.Error("未关联账号应返回空记录列表而非 nil/错误")
	}

	// 有邮箱但无同邮箱工人
	email := "ghost@example.com"
	orphan := &model.User{Username: "u2", PasswordHash: "x", Name: "U2", Email: &email}
	if err := mocks.users.Create(ctx, orphan); err != nil {
		t.Fatalf("写入用户失败: %v", err)
	}
	resp, err = svc.MyRecords(ctx, orphan.UserID)
	if err != nil {
		t.Fatalf("查询个人出勤失败: %v", err)
	}
	if resp.Linked {
		t.Error("邮箱未匹配工人档案时应返回 linked=false")
	}
}

func TestMyRecordsLinked(t *testing.T) {
	svc, mocks := newTestAttendanceService(t)
	ctx := context.Background()

	email := "asha@example.com"
	user := &model.User{Username: "asha", PasswordHash: "x", Name: "Asha", Email: &email}
	if err := mocks.users.Create(ctx, user); err != nil {
		t.Fatalf("写入用户失败: %v", err)
	}
	worker := seedWorker(t, mocks, "Asha", &email)
	slot := seedSlot(t, mocks, "Morning", "09:00", "10:00")

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	if err := mocks.attendance.Upsert(ctx, &model.AttendanceRecord{
		WorkerID: worker.WorkerID, Date: day, SlotID: slot.SlotID, Present: true,
	}); err != nil {
		t.Fatalf("写入记录失败: %v", err)
	}

	resp, err := svc.MyRecords(ctx, user.UserID)
	if err != nil {
		t.Fatalf("查询个人出勤失败: %v", err)
	}
	if !resp.Linked {
		t.Fatal("同邮箱工人存在时应返回 linked=true")
	}
	if len(resp.Records) != 1 {
		t.Fatalf("应返回 1 条记录, 实际 %d", len(resp.Records))
	}
	if resp.Records[0].Slot.Name != "Morning" {
		t.Errorf("记录应携带时段信息, 实际 %+v", resp.Records[0].Slot)
	}
}
