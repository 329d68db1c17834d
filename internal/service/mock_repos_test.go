package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KamleshRebari/wms-nppg/internal/model"
	"github.com/KamleshRebari/wms-nppg/internal/repository"
)

// 单元测试用的内存 Repository 实现。
// 聚合的 db 为 nil，Transaction 会直接以自身执行回调。

// ── UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

// ── WorkerRepository ──

type mockWorkerRepo struct {
	workers map[string]*model.Worker // key: worker_id
}

func newMockWorkerRepo() *mockWorkerRepo {
	return &mockWorkerRepo{workers: make(map[string]*model.Worker)}
}

func (m *mockWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	if worker.WorkerID == "" {
		worker.WorkerID = uuid.New().String()
	}
	worker.CreatedAt = time.Now()
	worker.UpdatedAt = time.Now()
	m.workers[worker.WorkerID] = worker
	return nil
}

func (m *mockWorkerRepo) GetByID(_ context.Context, id string) (*model.Worker, error) {
	if w, ok := m.workers[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) GetByEmail(_ context.Context, email string) (*model.Worker, error) {
	for _, w := range m.workers {
		if w.Email != nil && *w.Email == email {
			return w, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) List(_ context.Context) ([]model.Worker, error) {
	result := make([]model.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockWorkerRepo) Update(_ context.Context, worker *model.Worker) error {
	if _, ok := m.workers[worker.WorkerID]; !ok {
		return gorm.ErrRecordNotFound
	}
	worker.UpdatedAt = time.Now()
	m.workers[worker.WorkerID] = worker
	return nil
}

func (m *mockWorkerRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.workers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.workers, id)
	return nil
}

// ── SlotRepository ──

type mockSlotRepo struct {
	slots map[string]*model.Slot // key: slot_id
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{slots: make(map[string]*model.Slot)}
}

func (m *mockSlotRepo) Create(_ context.Context, slot *model.Slot) error {
	if slot.SlotID == "" {
		slot.SlotID = uuid.New().String()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now()
	}
	slot.UpdatedAt = time.Now()
	m.slots[slot.SlotID] = slot
	return nil
}

func (m *mockSlotRepo) GetByID(_ context.Context, id string) (*model.Slot, error) {
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// List 复刻数据库排序：start_time、created_at、slot_id 升序
func (m *mockSlotRepo) List(_ context.Context, includeInactive bool) ([]model.Slot, error) {
	result := make([]model.Slot, 0, len(m.slots))
	for _, s := range m.slots {
		if !includeInactive && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].SlotID < result[j].SlotID
	})
	return result, nil
}

func (m *mockSlotRepo) ListActive(ctx context.Context) ([]model.Slot, error) {
	return m.List(ctx, false)
}

func (m *mockSlotRepo) Update(_ context.Context, slot *model.Slot) error {
	if _, ok := m.slots[slot.SlotID]; !ok {
		return gorm.ErrRecordNotFound
	}
	slot.UpdatedAt = time.Now()
	m.slots[slot.SlotID] = slot
	return nil
}

func (m *mockSlotRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.slots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.slots, id)
	return nil
}

// ── AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord // key: worker_id|date|slot_id

	// 模拟 Preload 用的关联数据源
	workersRef *mockWorkerRepo
	slotsRef   *mockSlotRepo
}

func newMockAttendanceRepo(workers *mockWorkerRepo, slots *mockSlotRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		records:    make(map[string]*model.AttendanceRecord),
		workersRef: workers,
		slotsRef:   slots,
	}
}

func attendanceKey(workerID string, date time.Time, slotID string) string {
	return fmt.Sprintf("%s|%s|%s", workerID, date.Format("2006-01-02"), slotID)
}

// Upsert 复刻 (worker_id, date, slot_id) 唯一键语义：冲突时仅覆盖 present
func (m *mockAttendanceRepo) Upsert(_ context.Context, rec *model.AttendanceRecord) error {
	key := attendanceKey(rec.WorkerID, rec.Date, rec.SlotID)
	if existing, ok := m.records[key]; ok {
		existing.Present = rec.Present
		existing.UpdatedAt = time.Now()
		existing.UpdatedBy = rec.UpdatedBy
		rec.AttendanceID = existing.AttendanceID
		return nil
	}
	if rec.AttendanceID == "" {
		rec.AttendanceID = uuid.New().String()
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()
	clone := *rec
	m.records[key] = &clone
	return nil
}

func (m *mockAttendanceRepo) preload(rec model.AttendanceRecord) model.AttendanceRecord {
	if m.workersRef != nil {
		if w, ok := m.workersRef.workers[rec.WorkerID]; ok {
			rec.Worker = w
		}
	}
	if m.slotsRef != nil {
		if s, ok := m.slotsRef.slots[rec.SlotID]; ok {
			rec.Slot = s
		}
	}
	return rec
}

func (m *mockAttendanceRepo) ListByWorker(_ context.Context, workerID string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, rec := range m.records {
		if rec.WorkerID == workerID {
			result = append(result, m.preload(*rec))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (m *mockAttendanceRepo) ListPresentByDate(_ context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, rec := range m.records {
		if rec.Present && rec.Date.Equal(date) {
			result = append(result, m.preload(*rec))
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, rec := range m.records {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			result = append(result, m.preload(*rec))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockAttendanceRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	var n int64
	for _, rec := range m.records {
		if rec.Date.Equal(date) {
			n++
		}
	}
	return n, nil
}

// ── 组装 ──

type mockRepos struct {
	users      *mockUserRepo
	workers    *mockWorkerRepo
	slots      *mockSlotRepo
	attendance *mockAttendanceRepo
}

// newMockRepository 构造 db=nil 的 Repository 聚合，事务退化为直接执行
func newMockRepository() (*repository.Repository, *mockRepos) {
	users := newMockUserRepo()
	workers := newMockWorkerRepo()
	slots := newMockSlotRepo()
	attendance := newMockAttendanceRepo(workers, slots)

	repo := &repository.Repository{
		User:       users,
		Worker:     workers,
		Slot:       slots,
		Attendance: attendance,
	}
	return repo, &mockRepos{
		users:      users,
		workers:    workers,
		slots:      slots,
		attendance: attendance,
	}
}
