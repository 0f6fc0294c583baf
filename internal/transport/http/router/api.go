package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"careerflow-api/internal/core/metrics"
	"careerflow-api/internal/core/server"
	mdw "careerflow-api/internal/transport/http/middleware"
)

// Limits 通用服务保护参数
type Limits struct {
	GlobalRPS   rate.Limit
	GlobalBurst int
	IPRPS       rate.Limit
	IPBurst     int
	MaxInFlight int64
	// MaxBodyBytes 需大于上传上限，留出 multipart 头部余量
	MaxBodyBytes int64
	Timeout      time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		GlobalRPS:    200,
		GlobalBurst:  400,
		IPRPS:        20,
		IPBurst:      40,
		MaxInFlight:  300,
		MaxBodyBytes: 6 << 20,
		Timeout:      10 * time.Second,
	}
}

type Deps struct {
	Log      *zap.Logger
	Server   server.Options
	Limits   Limits
	Resolver mdw.Resolver
	Modules  *Registry

	// Registerer/Gatherer 为空时使用独立 registry
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	// UploadDir 非空时以 /uploads 暴露
	UploadDir string
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Modules == nil {
		d.Modules = &Registry{}
	}
	if d.Limits == (Limits{}) {
		d.Limits = DefaultLimits()
	}
	if d.Registerer == nil || d.Gatherer == nil {
		reg := prometheus.NewRegistry()
		d.Registerer, d.Gatherer = reg, reg
	}
}

func newEngine(d *Deps, name string) *gin.Engine {
	r := server.NewRouter(d.Server)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(d.Limits.GlobalRPS, d.Limits.GlobalBurst),
		mdw.RateLimitPerIP(d.Limits.IPRPS, d.Limits.IPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(d.Limits.MaxInFlight),
		mdw.MaxBodyBytes(d.Limits.MaxBodyBytes),
		mdw.Timeout(d.Limits.Timeout),
		mdw.Recovery(d.Log),
		mdw.NewHTTPMetrics(d.Registerer, name).Handler(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	return r
}

func NewAPIEngine(d Deps) *gin.Engine {
	d.defaults()
	r := newEngine(&d, "api")

	if d.UploadDir != "" {
		up := r.Group("/uploads", func(c *gin.Context) {
			c.Header("X-Content-Type-Options", "nosniff")
			c.Header("Content-Security-Policy", "default-src 'none'; sandbox")
			c.Next()
		})
		up.Static("/", d.UploadDir)
	}

	api := r.Group("/api")
	api.Use(mdw.Authenticate(d.Resolver, false))
	d.Modules.MountAPI(api)
	return r
}
