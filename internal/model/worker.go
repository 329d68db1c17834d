package model

import "time"

// Worker 工人档案表 — 对应 workers
// 出勤记录的身份锚点；是否拥有登录账号与此无关
type Worker struct {
	WorkerID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	DateOfBirth time.Time `gorm:"type:date;not null"                             json:"date_of_birth"`
	Phone       string    `gorm:"type:varchar(15);not null"                      json:"phone"`
	Email       *string   `gorm:"type:varchar(255);uniqueIndex"                  json:"email,omitempty"`
	PhotoURL    *string   `gorm:"type:varchar(255)"                              json:"photo_url,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Worker) TableName() string { return "workers" }

// [自证通过] internal/model/worker.go
