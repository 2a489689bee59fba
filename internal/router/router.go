package router

import (
	"log/slog"
	"net/http"

	"emojichirp/internal/handlers"
	"emojichirp/internal/middleware"
	"emojichirp/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Posts    *handlers.PostHandler
	Profiles *handlers.ProfileHandler
	Health   *handlers.HealthHandler
}

type Options struct {
	AuthKey []byte
	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	// MetricsHandler serves /metrics; nil leaves the route unregistered.
	MetricsHandler http.Handler
}

// New builds the engine with the shared middleware chain and all routes.
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recover(opts.Logger),
		middleware.Log(opts.Logger),
		middleware.Metrics(opts.Metrics),
	)
	RegisterRoutes(r, h, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, h Handlers, opts Options) {
	r.GET("/healthz", h.Health.Live) // 存活探针
	r.GET("/readyz", h.Health.Ready) // 就绪探针
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	api := r.Group("/api")

	// 公共接口 (Public procedures)
	api.GET("/post.getAll", h.Posts.GetAll)                             // 全站最新动态
	api.GET("/post.getById", h.Posts.GetByID)                           // 单条动态
	api.GET("/post.getPostByUserId", h.Posts.GetByUserID)               // 用户主页动态
	api.GET("/profile.getUserByUserName", h.Profiles.GetUserByUserName) // 按用户名查用户

	// 需要登录 (Protected procedures)
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired(opts.AuthKey))
	{
		authorized.POST("/post.create", h.Posts.Create) // 发布动态
	}
}
