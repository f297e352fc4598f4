package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/workbill/internal/apitoken"
	"github.com/smallbiznis/workbill/internal/auth"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
	"github.com/smallbiznis/workbill/internal/auth/session"
	"github.com/smallbiznis/workbill/internal/billing"
	billingdomain "github.com/smallbiznis/workbill/internal/billing/domain"
	"github.com/smallbiznis/workbill/internal/config"
	"github.com/smallbiznis/workbill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/workbill/internal/observability/metrics"
	"github.com/smallbiznis/workbill/internal/workspace"
	workspacedomain "github.com/smallbiznis/workbill/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const templatesGlob = "web/templates/*.html"

var Module = fx.Module("http.server",
	auth.Module,
	session.Module,
	workspace.Module,
	apitoken.Module,
	billing.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.LoadHTMLGlob(templatesGlob)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	sessions   *session.Manager
	genID      *snowflake.Node
	authsvc    authdomain.Service
	users      authdomain.Repository
	workspaces workspacedomain.Repository
	billing    billingdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Sessions   *session.Manager
	GenID      *snowflake.Node
	Authsvc    authdomain.Service
	Users      authdomain.Repository
	Workspaces workspacedomain.Repository
	Billing    billingdomain.Repository
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		sessions:   p.Sessions,
		genID:      p.GenID,
		authsvc:    p.Authsvc,
		users:      p.Users,
		workspaces: p.Workspaces,
		billing:    p.Billing,
	}

	s.registerRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	r := s.engine.Group("/", s.CurrentUser())

	r.GET("/login", s.LoginPage)
	r.POST("/login", s.Login)
	r.GET("/register", s.RegisterPage)
	r.POST("/register", s.Register)
	r.POST("/logout", s.Logout)

	pages := r.Group("/", s.LoginRequired())
	{
		pages.GET("", s.Home)
		pages.GET("/workspaces/creation", s.WorkspaceCreationPage)
		pages.POST("/workspaces/creation", s.CreateWorkspace)
		pages.GET("/workspaces/:workspaceId/bills", s.WorkspaceBills)
	}
}
