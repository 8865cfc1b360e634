package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/specto/internal/alttext"
	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
	"github.com/smallbiznis/specto/internal/apply"
	applydomain "github.com/smallbiznis/specto/internal/apply/domain"
	"github.com/smallbiznis/specto/internal/autoprocess"
	autoprocessdomain "github.com/smallbiznis/specto/internal/autoprocess/domain"
	"github.com/smallbiznis/specto/internal/config"
	"github.com/smallbiznis/specto/internal/credits"
	creditsdomain "github.com/smallbiznis/specto/internal/credits/domain"
	"github.com/smallbiznis/specto/internal/generation"
	generationdomain "github.com/smallbiznis/specto/internal/generation/domain"
	"github.com/smallbiznis/specto/internal/observability"
	commerceprovider "github.com/smallbiznis/specto/internal/providers/commerce"
	commercedomain "github.com/smallbiznis/specto/internal/providers/commerce/domain"
	visionprovider "github.com/smallbiznis/specto/internal/providers/vision"
	"github.com/smallbiznis/specto/internal/ratelimit"
	"github.com/smallbiznis/specto/internal/store"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
	"github.com/smallbiznis/specto/internal/usage"
	usagedomain "github.com/smallbiznis/specto/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	ratelimit.Module,
	visionprovider.Module,
	commerceprovider.Module,
	store.Module,
	credits.Module,
	alttext.Module,
	usage.Module,
	generation.Module,
	apply.Module,
	autoprocess.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
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
	engine         *gin.Engine
	cfg            config.Config
	log            *zap.Logger
	storeSvc       storedomain.Service
	creditsSvc     creditsdomain.Service
	alttextSvc     alttextdomain.Service
	usageSvc       usagedomain.Service
	generationSvc  generationdomain.Service
	applySvc       applydomain.Service
	autoprocessSvc autoprocessdomain.Service
	commerce       commercedomain.Client
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	StoreSvc       storedomain.Service
	CreditsSvc     creditsdomain.Service
	AlttextSvc     alttextdomain.Service
	UsageSvc       usagedomain.Service
	GenerationSvc  generationdomain.Service
	ApplySvc       applydomain.Service
	AutoprocessSvc autoprocessdomain.Service
	Commerce       commercedomain.Client
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("http.server"),
		storeSvc:       p.StoreSvc,
		creditsSvc:     p.CreditsSvc,
		alttextSvc:     p.AlttextSvc,
		usageSvc:       p.UsageSvc,
		generationSvc:  p.GenerationSvc,
		applySvc:       p.ApplySvc,
		autoprocessSvc: p.AutoprocessSvc,
		commerce:       p.Commerce,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func registerRoutes(s *Server) {
	s.RegisterRoutes()
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")

	v1.GET("/connect", s.Connect)
	v1.GET("/oauth/callback", s.OAuthCallback)

	v1.POST("/generate", s.GenerateBatch)
	v1.POST("/apply", s.ApplyBatch)
	v1.PATCH("/alt-texts", s.EditAltText)

	v1.GET("/settings", s.GetSettings)
	v1.PUT("/settings", s.UpdateSettings)

	v1.GET("/products", s.ListProducts)
	v1.GET("/usage", s.ListUsage)

	s.engine.POST("/webhooks/commerce", s.HandleCommerceWebhook)
}
