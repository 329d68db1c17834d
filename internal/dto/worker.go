package dto

// ── 工人档案模块 DTO ──

// CreateWorkerRequest 创建工人请求
type CreateWorkerRequest struct {
	Name        string  `json:"name"          binding:"required,min=2,max=100"`
	DateOfBirth string  `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Phone       string  `json:"phone"         binding:"required,max=15"`
	Email       *string `json:"email"         binding:"omitempty,email"`
}

// UpdateWorkerRequest 更新工人请求
type UpdateWorkerRequest struct {
	Name        *string `json:"name"          binding:"omitempty,min=2,max=100"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Phone       *string `json:"phone"         binding:"omitempty,max=15"`
	Email       *string `json:"email"         binding:"omitempty,email"`
}

// WorkerResponse 工人档案响应
type WorkerResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DateOfBirth string  `json:"date_of_birth"`
	Phone       string  `json:"phone"`
	Email       *string `json:"email,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// WorkerBrief 工人简要信息（嵌入出勤响应）
type WorkerBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
