package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yangpin97/cisco-client-portal/api/controllers"
	"github.com/yangpin97/cisco-client-portal/api/middlewares"
	"github.com/yangpin97/cisco-client-portal/api/notifyhub"
	"github.com/yangpin97/cisco-client-portal/asset"
	"github.com/yangpin97/cisco-client-portal/document"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

// Server is the portal's HTTP front: the public page, the admin API and the
// optional metrics listener.
type Server struct {
	cfg       types.AppConfig
	store     *document.Store
	placement *asset.Placement
	hub       *notifyhub.Hub
	limiter   *middlewares.LoginLimiter
	metrics   *tool.Metrics

	engine        *gin.Engine
	server        *http.Server
	metricsServer *http.Server
	mu            sync.RWMutex
}

// NewServer wires the document store to the HTTP routes. metrics may be nil.
func NewServer(cfg types.AppConfig, store *document.Store, metrics *tool.Metrics) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		placement: asset.New(filepath.Join(cfg.PublicDir, cfg.UploadSubdir), cfg.UploadSubdir, cfg.QRChannels),
		hub:       notifyhub.New(),
		limiter:   middlewares.NewLoginLimiter(cfg.Login),
		metrics:   metrics,
	}
	store.OnChange(s.hub.DocumentUpdated)
	s.engine = s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.MaxMultipartMemory = 16 << 20
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RequestLogger)

	dataCtrl := controllers.NewDataController(s.store)
	authCtrl := controllers.NewAuthController(s.store, s.metrics)
	sectionCtrl := controllers.NewSectionController(s.store, s.metrics)
	clientCtrl := controllers.NewClientController(s.store, s.metrics)
	uploadCtrl := controllers.NewUploadController(s.store, s.placement, s.metrics)
	pageCtrl := controllers.NewPageController(s.cfg.PublicDir)

	public := engine.Group("/api")
	{
		public.GET("/data", dataCtrl.HandleGetData)
		public.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
	}

	// The admin page logs in client-side, so these routes carry no session.
	// adminLocalOnly keeps them off the network entirely.
	admin := engine.Group("/api")
	if s.cfg.AdminLocalOnly {
		admin.Use(middlewares.OnlyAllowLocal)
	}
	{
		admin.POST("/login", s.limiter.Middleware(), authCtrl.HandleLogin)
		admin.POST("/update-admin", authCtrl.HandleUpdateAdmin)

		admin.POST("/update-texts", sectionCtrl.HandleUpdate(document.SectionTexts))
		admin.POST("/update-downloads", sectionCtrl.HandleUpdate(document.SectionDownloads))
		admin.POST("/update-manuals", sectionCtrl.HandleUpdate(document.SectionManuals))
		admin.POST("/update-header-nav", sectionCtrl.HandleUpdate(document.SectionHeaderNav))
		admin.POST("/update-banner", sectionCtrl.HandleUpdate(document.SectionBanner))

		admin.POST("/upload-qr", uploadCtrl.HandleUploadQR)
		admin.POST("/upload-image", uploadCtrl.HandleUploadImage)
		admin.POST("/generate-qr", uploadCtrl.HandleGenerateQR)
		admin.GET("/qr-preview", controllers.HandleQRPreview)

		admin.POST("/add-client", clientCtrl.HandleAddClient)
		admin.POST("/update-client", clientCtrl.HandleUpdateClient)
		admin.POST("/remove-client", clientCtrl.HandleRemoveClient)
		admin.POST("/move-client", clientCtrl.HandleMoveClient)
		admin.POST("/save-clients", clientCtrl.HandleSaveClients)
	}

	engine.GET("/login", pageCtrl.HandleAdminPage)
	engine.NoRoute(pageCtrl.HandleStatic)

	return engine
}

// Start serves the portal until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting portal on http://0.0.0.0:%d", s.cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartMetrics serves /metrics on the configured metrics port. It returns
// immediately when the port is 0 or no metrics were given.
func (s *Server) StartMetrics() error {
	if s.cfg.MetricsPort == 0 || s.metrics == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	s.mu.Lock()
	s.metricsServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.metricsServer
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Serving metrics on http://0.0.0.0:%d/metrics", s.cfg.MetricsPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops both listeners, waiting for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	servers := []*http.Server{s.server, s.metricsServer}
	s.mu.RUnlock()

	var errs []error
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
